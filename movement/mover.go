package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/assert"
	"github.com/oomph-ac/charsim/game"
)

// Mover advances character states by one input at a time. Step is deterministic: the same
// prior state, input and context always produce the same state. A Mover has no state of its
// own and may be shared between goroutines as long as each Context is not.
type Mover struct{}

// NewMover ...
func NewMover() *Mover {
	return &Mover{}
}

// Step applies the input passed to the prior state and returns the resulting state. The
// prior state is never modified. Events are only emitted if the input is a first application.
func (m *Mover) Step(prior State, in Input, ctx *Context) State {
	assert.IsTrue(ctx != nil && ctx.Params != nil, "movement context has no params")
	assert.IsTrue(ctx.World != nil, "movement context has no world")

	result := prior.Clone()
	result.Sequence = in.Sequence

	sc := newStepContext(ctx, in, &result)
	defer putStepContext(sc)

	if ctx.World.RegionLoaded(prior.Position) {
		sc.updatePosition()
		if in.FirstApplication {
			sc.checkBlockEntry(prior.Position, result.Position)
		}
		if result.Mode != ModeGhosting && result.Mode != ModeNone {
			sc.checkMode()
		}
	} else {
		ctx.debug("skipped movement in unloaded region", "seq", in.Sequence, "pos", prior.Position)
	}
	result.Time = prior.Time + in.Delta

	sc.updateRotation()
	result.Yaw = in.Yaw
	result.Pitch = in.Pitch
	return result
}

func (sc *stepContext) updatePosition() {
	if sc.state.Mode == ModeNone {
		sc.followParent()
		return
	}
	sc.walk()
}

// followParent moves a character in ModeNone to the transform of the entity it is attached
// to. The velocity is derived from the distance moved.
func (sc *stepContext) followParent() {
	if sc.ctx.Parent == nil {
		return
	}
	pos, _, ok := sc.ctx.Parent()
	if !ok {
		return
	}
	s := sc.state
	if dt := sc.in.DeltaSeconds(); dt > 0 {
		s.Velocity = pos.Sub(s.Position).Mul(1 / dt)
	} else {
		s.Velocity = mgl32.Vec3{}
	}
	s.Position = pos
}

func (sc *stepContext) updateRotation() {
	s := sc.state
	if sc.ctx.Params.FaceMovementDirection && game.Vec3HzDistSqr(s.Velocity) > 0.01 {
		yaw := math32.Atan2(s.Velocity[0], s.Velocity[2])
		s.Rotation = mgl32.QuatRotate(yaw, game.Up)
		return
	}
	s.Rotation = game.YawRotation(sc.in.Yaw)
}

// SetMode returns the state passed in the mode passed. Leaving ModeNone stops the character
// and leaving ModeClimbing clears the climb direction.
func SetMode(s State, mode Mode) State {
	s = s.Clone()
	if s.Mode == ModeNone && mode != ModeNone {
		s.Velocity = mgl32.Vec3{}
	}
	if mode != ModeClimbing {
		s.ClimbDirection = nil
	}
	if !mode.Properties().CanBeGrounded {
		s.Grounded = false
	}
	s.Mode = mode
	return s
}

// Impulse returns the state passed with the impulse added to its velocity.
func Impulse(s State, impulse mgl32.Vec3) State {
	s = s.Clone()
	s.Velocity = s.Velocity.Add(impulse)
	if impulse[1] > 0 {
		s.Grounded = false
	}
	return s
}

// Teleport returns the state passed moved to the position passed, at rest and airborne.
func Teleport(s State, pos mgl32.Vec3) State {
	s = s.Clone()
	s.Position = pos
	s.Velocity = mgl32.Vec3{}
	s.Grounded = false
	return s
}
