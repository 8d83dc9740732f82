package movement

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func TestStateHash(t *testing.T) {
	a := NewState(mgl32.Vec3{1, 2, 3})
	b := NewState(mgl32.Vec3{1, 2, 3})
	if a.Hash() != b.Hash() {
		t.Fatalf("expected equal states to hash equally")
	}

	b.Velocity[0] = 0.0001
	if a.Hash() == b.Hash() {
		t.Fatalf("expected different velocities to hash differently")
	}

	b = a.Clone()
	b.SetClimbDirection(cube.Pos{})
	if a.Hash() == b.Hash() {
		t.Fatalf("expected a zero climb direction to differ from none")
	}
}

func TestStateClone(t *testing.T) {
	a := NewState(mgl32.Vec3{})
	a.SetClimbDirection(cube.Pos{1, 0, 0})
	b := a.Clone()
	b.ClimbDirection[0] = -1
	if a.ClimbDirection[0] != 1 {
		t.Fatalf("expected the clone not to share its climb direction")
	}
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("expected default params to be valid: %v", err)
	}
	if err := p.Scale(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Height != 3.2 || p.Radius != 0.6 || p.StepHeight != 0.7 {
		t.Fatalf("unexpected scaled params %+v", p)
	}
	if err := p.Scale(0); err == nil {
		t.Fatalf("expected an error for a zero scale")
	}
	if err := p.SetHeight(-1); err == nil {
		t.Fatalf("expected an error for a negative height")
	}

	p = DefaultParams()
	p.DistanceBetweenFootsteps = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an error for a zero footstep distance")
	}
}

func TestItemCooldownHook(t *testing.T) {
	h := Hooks{}
	if h.ItemCooldown(5) != 5 {
		t.Fatalf("expected the base cooldown without a hook")
	}
	h.ItemUseCooldown = func(v *ModifiableValue) {
		v.Result = v.Base / 2
	}
	if h.ItemCooldown(5) != 2.5 {
		t.Fatalf("expected the hook to halve the cooldown, got %v", h.ItemCooldown(5))
	}
}
