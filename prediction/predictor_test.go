package prediction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/world"
)

type mockLookup struct{}

func (mockLookup) BlockAt(cube.Pos) world.BlockInfo {
	return world.Air
}

func (mockLookup) RegionLoaded(mgl32.Vec3) bool {
	return true
}

// namedLookup names every block after its position, so that moving into another block
// always emits an EnterBlockEvent.
type namedLookup struct {
	mockLookup
}

func (namedLookup) BlockAt(pos cube.Pos) world.BlockInfo {
	return world.BlockInfo{Name: fmt.Sprint(pos)}
}

type mockTarget struct {
	states []movement.State
}

func (t *mockTarget) ApplyState(s movement.State) {
	t.states = append(t.states, s)
}

func newContext(events event.Handler) *movement.Context {
	params := movement.DefaultParams()
	return &movement.Context{Params: &params, World: mockLookup{}, Events: events}
}

func testInput(seq int32) movement.Input {
	return movement.Input{Sequence: seq, Delta: 50, Direction: mgl32.Vec3{1, 0, 0}, Yaw: float32(seq)}
}

// authority simulates the server side chain for the inputs passed.
func authority(initial movement.State, inputs ...movement.Input) []movement.State {
	return authorityWith(movement.DefaultParams(), initial, inputs...)
}

func authorityWith(params movement.Params, initial movement.State, inputs ...movement.Input) []movement.State {
	ctx := &movement.Context{Params: &params, World: mockLookup{}}
	m := movement.NewMover()
	states := make([]movement.State, 0, len(inputs))
	s := initial
	for _, in := range inputs {
		in.FirstApplication = true
		s = m.Step(s, in, ctx)
		states = append(states, s)
	}
	return states
}

func TestReconcile(t *testing.T) {
	initial := movement.NewState(mgl32.Vec3{0, 10, 0})
	target := &mockTarget{}
	p := New(movement.NewMover(), newContext(nil), initial, target, nil)

	inputs := []movement.Input{testInput(1), testInput(2), testInput(3)}
	for _, in := range inputs {
		if _, err := p.OnLocalInput(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if p.Pending() != 3 {
		t.Fatalf("expected 3 pending inputs, got %d", p.Pending())
	}
	predicted := p.Predicted()

	auth := authority(initial, inputs...)
	p.OnAuthoritativeState(auth[0])
	if p.Pending() != 2 {
		t.Fatalf("expected 2 pending inputs, got %d", p.Pending())
	}
	if p.Predicted().Hash() != predicted.Hash() {
		t.Fatalf("expected replay to reproduce the prediction")
	}

	p.OnAuthoritativeState(auth[2])
	if p.Pending() != 0 {
		t.Fatalf("expected no pending inputs, got %d", p.Pending())
	}
	if p.Predicted().Hash() != auth[2].Hash() || p.Confirmed().Hash() != auth[2].Hash() {
		t.Fatalf("expected to adopt the authoritative state")
	}
	if p.Corrections() != 0 {
		t.Fatalf("expected no corrections, got %d", p.Corrections())
	}
	if len(target.states) != 5 {
		t.Fatalf("expected every state to reach the target, got %d", len(target.states))
	}
}

func TestReconcileCorrection(t *testing.T) {
	initial := movement.NewState(mgl32.Vec3{0, 10, 0})
	p := New(movement.NewMover(), newContext(nil), initial, nil, nil)
	for seq := int32(1); seq <= 3; seq++ {
		if _, err := p.OnLocalInput(testInput(seq)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	auth := authority(initial, testInput(1))[0]
	auth.Position = auth.Position.Add(mgl32.Vec3{0, 0, 5})
	p.OnAuthoritativeState(auth)
	if p.Corrections() != 1 {
		t.Fatalf("expected a correction, got %d", p.Corrections())
	}

	want := authority(auth, testInput(2), testInput(3))[1]
	if got := p.Predicted(); got.Hash() != want.Hash() {
		t.Fatalf("expected the remaining inputs to be replayed on the correction: %v vs %v", got.Position, want.Position)
	}
}

func TestReplayEmitsNoEvents(t *testing.T) {
	rec := &event.Recorder{}
	ctx := newContext(rec)
	ctx.World = namedLookup{}
	initial := movement.NewState(mgl32.Vec3{0.9, 10, 0})
	initial.Velocity = mgl32.Vec3{5, 0, 0}
	p := New(movement.NewMover(), ctx, initial, nil, nil)

	inputs := []movement.Input{testInput(1), testInput(2)}
	for _, in := range inputs {
		if _, err := p.OnLocalInput(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	before := len(rec.Events)
	if before == 0 {
		t.Fatalf("expected first applications to emit events")
	}
	p.OnAuthoritativeState(authority(initial, inputs...)[0])
	if len(rec.Events) != before {
		t.Fatalf("expected replays not to emit events, got %v", rec.Events[before:])
	}
}

func TestSequenceOrdering(t *testing.T) {
	p := New(movement.NewMover(), newContext(nil), movement.NewState(mgl32.Vec3{}), nil, nil)
	if _, err := p.OnLocalInput(testInput(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.OnLocalInput(testInput(2)); err == nil {
		t.Fatalf("expected a repeated sequence to be rejected")
	}
	if _, err := p.OnLocalInput(testInput(1)); err == nil {
		t.Fatalf("expected an older sequence to be rejected")
	}
	if p.Pending() != 1 {
		t.Fatalf("expected a single pending input, got %d", p.Pending())
	}
}

func TestStaleAuthoritativeState(t *testing.T) {
	initial := movement.NewState(mgl32.Vec3{})
	p := New(movement.NewMover(), newContext(nil), initial, nil, nil)
	auth := authority(initial, testInput(1), testInput(2))

	p.OnAuthoritativeState(auth[1])
	p.OnAuthoritativeState(auth[0])
	if p.Confirmed().Sequence != 2 {
		t.Fatalf("expected the stale state to be ignored, confirmed %d", p.Confirmed().Sequence)
	}
	if _, err := p.OnLocalInput(testInput(2)); err == nil {
		t.Fatalf("expected inputs confirmed by the authority to be rejected")
	}
}

func TestResetAndClose(t *testing.T) {
	target := &mockTarget{}
	p := New(movement.NewMover(), newContext(nil), movement.NewState(mgl32.Vec3{}), target, nil)
	for seq := int32(1); seq <= 3; seq++ {
		if _, err := p.OnLocalInput(testInput(seq)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	respawn := movement.NewState(mgl32.Vec3{10, 20, 30})
	respawn.Sequence = 3
	p.Reset(respawn)
	if p.Pending() != 0 || p.Predicted().Position != respawn.Position {
		t.Fatalf("expected reset to adopt the state passed")
	}
	if last := target.states[len(target.states)-1]; last.Position != respawn.Position {
		t.Fatalf("expected the target to receive the reset state")
	}

	p.Close()
	if _, err := p.OnLocalInput(testInput(4)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestReconcileAirJumps(t *testing.T) {
	params := movement.DefaultParams()
	params.BaseJumpsMax, params.JumpsMax, params.JumpsLeft = 2, 2, 2
	ctx := &movement.Context{Params: &params, World: mockLookup{}}

	initial := movement.NewState(mgl32.Vec3{0, 10, 0})
	p := New(movement.NewMover(), ctx, initial, nil, nil)

	inputs := []movement.Input{testInput(1), testInput(2)}
	for i := range inputs {
		inputs[i].Jumping = true
		if _, err := p.OnLocalInput(inputs[i]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if params.JumpsLeft != 0 {
		t.Fatalf("expected both air jumps to be used, got %d left", params.JumpsLeft)
	}

	authParams := movement.DefaultParams()
	authParams.BaseJumpsMax, authParams.JumpsMax, authParams.JumpsLeft = 2, 2, 2
	auth := authorityWith(authParams, initial, inputs...)

	p.OnAuthoritativeState(auth[0])
	if got, want := p.Predicted(), auth[1]; got.Hash() != want.Hash() {
		t.Fatalf("expected replayed air jump to match authority %+v, got %+v", want, got)
	}
	if params.JumpsLeft != 0 {
		t.Fatalf("expected replay to use the second air jump, got %d left", params.JumpsLeft)
	}
}

func TestTeleportThenState(t *testing.T) {
	initial := movement.NewState(mgl32.Vec3{0, 10, 0})
	p := New(movement.NewMover(), newContext(nil), initial, nil, nil)

	inputs := []movement.Input{testInput(1), testInput(2), testInput(3), testInput(4), testInput(5)}
	for _, in := range inputs {
		if _, err := p.OnLocalInput(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// The authority switched the character to flying after applying input 3.
	moved := movement.SetMode(authority(initial, inputs[:3]...)[2], movement.ModeFlying)
	p.OnTeleport(moved.Sequence, moved.Position)
	if got := p.Confirmed(); got.Sequence != 3 || got.Position != moved.Position {
		t.Fatalf("expected confirmed state at %v after input 3, got %+v", moved.Position, got)
	}
	if p.Pending() != 2 {
		t.Fatalf("expected 2 pending inputs after teleport, got %d", p.Pending())
	}

	p.OnAuthoritativeState(moved)
	got := p.Predicted()
	if got.Mode != movement.ModeFlying {
		t.Fatalf("expected predicted state to adopt flying mode, got %v", got.Mode)
	}
	if want := authority(moved, inputs[3:]...)[1]; got.Hash() != want.Hash() {
		t.Fatalf("expected prediction %+v, got %+v", want, got)
	}
}

func TestStaleTeleport(t *testing.T) {
	initial := movement.NewState(mgl32.Vec3{})
	p := New(movement.NewMover(), newContext(nil), initial, nil, nil)
	auth := authority(initial, testInput(1), testInput(2))

	p.OnAuthoritativeState(auth[1])
	p.OnTeleport(1, mgl32.Vec3{5, 5, 5})
	if got := p.Confirmed(); got.Hash() != auth[1].Hash() {
		t.Fatalf("expected stale teleport to be ignored, got %+v", got)
	}
}
