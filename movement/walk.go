package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/game"
	"github.com/oomph-ac/charsim/world"
)

// walk integrates the velocity of the character towards the desired velocity of the input
// and resolves the resulting movement against terrain.
func (sc *stepContext) walk() {
	p := sc.ctx.Params
	s := sc.state
	props := s.Mode.Properties()
	dt := sc.in.DeltaSeconds()

	desiredVelocity := sc.in.Direction
	if desiredVelocity.LenSqr() > 1 {
		desiredVelocity = desiredVelocity.Normalize()
	}
	desiredVelocity = desiredVelocity.Mul(p.SpeedMultiplier)

	maxSpeed := sc.ctx.Hooks.maxSpeed(s.Mode)
	if sc.in.Running {
		maxSpeed *= p.RunFactor
	}

	// Grounded characters keep their speed but cannot move vertically on their own.
	if s.Grounded && desiredVelocity[1] != 0 {
		speed := desiredVelocity.Len()
		desiredVelocity[1] = 0
		if horiz, ok := game.SafeNormalize(desiredVelocity); ok {
			desiredVelocity = horiz.Mul(speed)
		}
	}
	desiredVelocity = desiredVelocity.Mul(maxSpeed)

	if s.Mode == ModeClimbing {
		sc.climb(&desiredVelocity)
	}
	if s.Mode.Swimming() {
		p.JumpsLeft = 0
	}

	velocityDiff := desiredVelocity.Sub(s.Velocity).Mul(game.ClampFloat(props.ScaleInertia*dt, 0, 1))
	endVelocity := s.Velocity
	endVelocity[0] += velocityDiff[0]
	endVelocity[2] += velocityDiff[2]
	switch {
	case props.ScaleGravity == 0:
		endVelocity[1] += velocityDiff[1]
	case props.ApplyInertiaToVertical:
		endVelocity[1] += max(-game.TerminalVelocity, velocityDiff[1]-game.Gravity*props.ScaleGravity*dt)
	default:
		endVelocity[1] = max(-game.TerminalVelocity, s.Velocity[1]-game.Gravity*props.ScaleGravity*dt)
	}
	moveDelta := endVelocity.Mul(dt)

	var stepHeight float32
	if s.Mode != ModeClimbing && s.Grounded && props.CanBeGrounded {
		stepHeight = p.StepHeight
	}
	var col Collider
	if props.UseCollision {
		col = sc.ctx.Collider
	}

	firstRun := sc.in.FirstApplication
	res := sc.move(s.Position, moveDelta, stepHeight, p.SlopeFactor, col)
	distanceMoved := res.position.Sub(s.Position)
	s.Position = res.position

	if s.Grounded {
		p.JumpsLeft = p.JumpsMax
	}

	if res.bottomHit {
		if !s.Grounded && props.CanBeGrounded {
			if firstRun {
				landVelocity := s.Velocity
				landVelocity[1] += movedFraction(distanceMoved[1], moveDelta[1]) * (endVelocity[1] - s.Velocity[1])
				sc.ctx.emit(event.VerticalCollisionEvent{NopEvent: sc.nopEvent(), Position: s.Position, Velocity: landVelocity})
			}
			s.Grounded = true
			p.JumpsLeft = p.JumpsMax
		}
		endVelocity[1] = 0

		if sc.in.Jumping && s.Grounded {
			sc.jump(&endVelocity)
		}
	} else {
		if res.topHit && endVelocity[1] > 0 {
			if firstRun {
				hitVelocity := s.Velocity
				hitVelocity[1] += movedFraction(distanceMoved[1], moveDelta[1]) * (endVelocity[1] - s.Velocity[1])
				sc.ctx.emit(event.VerticalCollisionEvent{NopEvent: sc.nopEvent(), Position: s.Position, Velocity: hitVelocity})
			}
			endVelocity[1] = 0
		}
		if sc.in.Jumping && p.JumpsLeft > 0 {
			sc.jump(&endVelocity)
		}
		if s.Grounded {
			p.JumpsLeft--
			s.Grounded = false
		}
	}

	if res.horizontalHit && firstRun {
		hitVelocity := s.Velocity
		hitVelocity[0] += movedFraction(distanceMoved[0], moveDelta[0]) * (endVelocity[0] - s.Velocity[0])
		hitVelocity[2] += movedFraction(distanceMoved[2], moveDelta[2]) * (endVelocity[2] - s.Velocity[2])
		sc.ctx.emit(event.HorizontalCollisionEvent{NopEvent: sc.nopEvent(), Position: s.Position, Velocity: hitVelocity})
	}
	s.Velocity = endVelocity

	if s.Grounded || s.Mode.Swimming() {
		s.FootstepDelta += distanceMoved.Len() / p.DistanceBetweenFootsteps
		for s.FootstepDelta >= 1 {
			s.FootstepDelta--
			if firstRun {
				sc.footstep()
			}
		}
	}
}

// jump launches the character upwards and spends one of its jumps.
func (sc *stepContext) jump(velocity *mgl32.Vec3) {
	p := sc.ctx.Params
	sc.state.Grounded = false
	velocity[1] += sc.ctx.Hooks.jumpForce(p.JumpSpeed)
	if sc.in.FirstApplication {
		sc.ctx.emit(event.JumpEvent{NopEvent: sc.nopEvent()})
	}
	p.JumpsMax = sc.ctx.Hooks.maxJumps(p.BaseJumpsMax)
	p.JumpsLeft--
}

func (sc *stepContext) footstep() {
	s := sc.state
	switch s.Mode {
	case ModeWalking, ModeCrouching, ModeProning:
		sc.ctx.emit(event.FootstepEvent{NopEvent: sc.nopEvent()})
	case ModeSwimming, ModeDiving:
		sc.ctx.emit(event.SwimStrokeEvent{NopEvent: sc.nopEvent(), Block: world.BlockAtVec(sc.ctx.World, s.Position).Name})
	}
}

// movedFraction returns the fraction of the expected movement that was actually moved.
func movedFraction(moved, expected float32) float32 {
	if expected == 0 {
		return 0
	}
	return moved / expected
}
