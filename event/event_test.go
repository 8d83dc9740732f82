package event

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeDecodeEvents(t *testing.T) {
	evs := []Event{
		FootstepEvent{NopEvent{EvTime: 50}},
		SwimStrokeEvent{NopEvent: NopEvent{EvTime: 100}, Block: "minecraft:water"},
		JumpEvent{NopEvent{EvTime: 150}},
		HorizontalCollisionEvent{NopEvent: NopEvent{EvTime: 200}, Position: mgl32.Vec3{1, 2, 3}, Velocity: mgl32.Vec3{-4, 0, 0.5}},
		VerticalCollisionEvent{NopEvent: NopEvent{EvTime: 250}, Position: mgl32.Vec3{0, 1.81, 0}, Velocity: mgl32.Vec3{0, -12, 0}},
		EnterBlockEvent{NopEvent: NopEvent{EvTime: 300}, Old: "minecraft:air", New: "minecraft:web", Slice: 1},
	}

	decoded, err := DecodeEvents(EncodeAll(evs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded, evs) {
		t.Fatalf("expected %+v, got %+v", evs, decoded)
	}
}

func TestDecodeEventsErrors(t *testing.T) {
	if _, err := DecodeEvents([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error for a short header")
	}

	dat := FootstepEvent{}.Encode()
	dat[0] = 99
	if _, err := DecodeEvents(dat); err == nil {
		t.Fatalf("expected an error for an unknown event")
	}

	dat = SwimStrokeEvent{Block: "minecraft:water"}.Encode()
	if _, err := DecodeEvents(dat[:len(dat)-3]); err == nil {
		t.Fatalf("expected an error for a truncated string")
	}

	dat = EnterBlockEvent{Old: "a", New: "b", Slice: 2}.Encode()
	if _, err := DecodeEvents(dat[:len(dat)-2]); err == nil {
		t.Fatalf("expected an error for a missing slice")
	}
}

func TestEncodeDoesNotAlias(t *testing.T) {
	a := JumpEvent{NopEvent{EvTime: 1}}.Encode()
	b := JumpEvent{NopEvent{EvTime: 2}}.Encode()
	if a[8] != 1 || b[8] != 2 {
		t.Fatalf("expected encoded events not to share memory: %v %v", a, b)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	var h Handler = rec
	h.HandleEvent(FootstepEvent{})
	h.HandleEvent(JumpEvent{})
	h.HandleEvent(FootstepEvent{})

	if rec.Count(EventIDFootstep) != 2 || rec.Count(EventIDJump) != 1 {
		t.Fatalf("unexpected counts in %v", rec.Events)
	}
	if evs := rec.Flush(); len(evs) != 3 || len(rec.Events) != 0 {
		t.Fatalf("expected flush to return all events and reset, got %v and %v", evs, rec.Events)
	}

	n := 0
	HandlerFunc(func(Event) { n++ }).HandleEvent(JumpEvent{})
	NopHandler{}.HandleEvent(JumpEvent{})
	if n != 1 {
		t.Fatalf("expected the handler func to run once, got %d", n)
	}
}
