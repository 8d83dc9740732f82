package event

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/internal"
	"github.com/oomph-ac/charsim/oerror"
)

// Event is a side effect of a movement step, such as a footstep or a landing. Events
// are only produced the first time an input is applied.
type Event interface {
	ID() byte
	Encode() []byte

	Time() int64
}

// NopEvent holds the time shared by all events.
type NopEvent struct {
	EvTime int64
}

func (n NopEvent) Time() int64 {
	return n.EvTime
}

// Handler receives events emitted by the movement solver.
type Handler interface {
	HandleEvent(ev Event)
}

// NopHandler discards all events.
type NopHandler struct{}

func (NopHandler) HandleEvent(Event) {}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) {
	f(ev)
}

// Recorder is a Handler that stores every event it receives in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) HandleEvent(ev Event) {
	r.Events = append(r.Events, ev)
}

// Count returns the amount of recorded events with the ID passed.
func (r *Recorder) Count(id byte) int {
	n := 0
	for _, ev := range r.Events {
		if ev.ID() == id {
			n++
		}
	}
	return n
}

// Reset removes all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Flush returns the recorded events and resets the recorder.
func (r *Recorder) Flush() []Event {
	evs := make([]Event, len(r.Events))
	copy(evs, r.Events)
	r.Reset()
	return evs
}

// EncodeAll encodes every event passed into a single byte slice.
func EncodeAll(evs []Event) []byte {
	var out []byte
	for _, ev := range evs {
		out = append(out, ev.Encode()...)
	}
	return out
}

func WriteEventHeader(ev Event, buf *bytes.Buffer) {
	binary.Write(buf, binary.LittleEndian, uint64(ev.ID()))
	binary.Write(buf, binary.LittleEndian, uint64(ev.Time()))
}

func DecodeEvents(dat []byte) ([]Event, error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	buf.Write(dat)
	defer internal.BufferPool.Put(buf)

	events := []Event{}
	for buf.Len() > 0 {
		ev, err := DecodeEvent(buf)
		if err != nil {
			return events, oerror.New("error decoding event: %v", err)
		}

		events = append(events, ev)
	}

	return events, nil
}

func DecodeEvent(buf *bytes.Buffer) (Event, error) {
	if buf.Len() < 16 {
		return nil, oerror.New("event header too short (%d bytes)", buf.Len())
	}
	id := byte(binary.LittleEndian.Uint64(buf.Next(8)))
	t := int64(binary.LittleEndian.Uint64(buf.Next(8)))

	var err error
	switch id {
	case EventIDFootstep:
		ev := FootstepEvent{}
		ev.EvTime = t
		return ev, nil
	case EventIDSwimStroke:
		ev := SwimStrokeEvent{}
		ev.EvTime = t
		ev.Block, err = readString(buf)
		return ev, err
	case EventIDJump:
		ev := JumpEvent{}
		ev.EvTime = t
		return ev, nil
	case EventIDHorizontalCollision:
		ev := HorizontalCollisionEvent{}
		ev.EvTime = t
		if ev.Position, err = readVec3(buf); err != nil {
			return nil, err
		}
		ev.Velocity, err = readVec3(buf)
		return ev, err
	case EventIDVerticalCollision:
		ev := VerticalCollisionEvent{}
		ev.EvTime = t
		if ev.Position, err = readVec3(buf); err != nil {
			return nil, err
		}
		ev.Velocity, err = readVec3(buf)
		return ev, err
	case EventIDEnterBlock:
		ev := EnterBlockEvent{}
		ev.EvTime = t
		if ev.Old, err = readString(buf); err != nil {
			return nil, err
		}
		if ev.New, err = readString(buf); err != nil {
			return nil, err
		}
		if buf.Len() < 4 {
			return nil, oerror.New("missing slice in EnterBlockEvent")
		}
		ev.Slice = int32(binary.LittleEndian.Uint32(buf.Next(4)))
		return ev, nil
	default:
		return nil, oerror.New("unknown event: %d", id)
	}
}

// encode runs f against a pooled buffer after writing the header of ev, and returns a
// copy of the result.
func encode(ev Event, f func(buf *bytes.Buffer)) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer internal.BufferPool.Put(buf)

	WriteEventHeader(ev, buf)
	if f != nil {
		f(buf)
	}

	return bytes.Clone(buf.Bytes())
}

func writeVec3(buf *bytes.Buffer, v mgl32.Vec3) {
	for _, f := range v {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(f))
	}
}

func readVec3(buf *bytes.Buffer) (mgl32.Vec3, error) {
	if buf.Len() < 12 {
		return mgl32.Vec3{}, oerror.New("vec3 too short (%d bytes)", buf.Len())
	}
	var v mgl32.Vec3
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf.Next(4)))
	}
	return v, nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(buf *bytes.Buffer) (string, error) {
	if buf.Len() < 4 {
		return "", oerror.New("string length missing")
	}
	l := int(binary.LittleEndian.Uint32(buf.Next(4)))
	if buf.Len() < l {
		return "", oerror.New("string of length %d exceeds remaining %d bytes", l, buf.Len())
	}
	return string(buf.Next(l)), nil
}

const (
	_ = iota
	EventIDFootstep
	EventIDSwimStroke
	EventIDJump
	EventIDHorizontalCollision
	EventIDVerticalCollision
	EventIDEnterBlock
)
