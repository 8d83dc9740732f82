package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
)

// climb steers the desired velocity of a climbing character. The direction of the input is
// taken relative to the character's view: facing the surface turns forward movement into
// climbing up or down, standing beside it rolls movement up along it and facing away moves
// the character off the surface.
func (sc *stepContext) climb(desiredVelocity *mgl32.Vec3) {
	s := sc.state
	if s.ClimbDirection == nil {
		return
	}
	climbDir := *s.ClimbDirection
	climbVec := climbDir.Vec3()

	yaw := mgl32.DegToRad(s.Yaw)
	rotation := game.RotationYXZ(yaw, 0, 0)
	angle := game.Angle(rotation.Rotate(game.Forward), climbVec)

	clearMovementToDirection := !s.Grounded
	jumpOrCrouchActive := desiredVelocity[1] != 0

	switch {
	case angle < math32.Pi/4 || math32.Abs(sc.in.Pitch) > 60:
		// Facing the surface or looking steeply up or down.
		if jumpOrCrouchActive {
			desiredVelocity[0], desiredVelocity[2] = 0, 0
			clearMovementToDirection = false
			break
		}
		pitchAmount := float32(90)
		if s.Grounded {
			pitchAmount = 45
		}
		pitch := -pitchAmount
		if sc.in.Pitch > 30 {
			pitch = pitchAmount
		}
		rotation = game.RotationYXZ(yaw, mgl32.DegToRad(pitch), 0)
		*desiredVelocity = rotation.Rotate(*desiredVelocity)
	case angle < 3*math32.Pi/4:
		// The surface is beside the character.
		rollAmount := float32(90)
		if s.Grounded {
			rollAmount = 45
		}
		rotated := rotation.Rotate(climbVec)
		plusOrMinus := float32(1)
		if rotated[0] < 0 {
			plusOrMinus = -1
		}
		if climbDir[0] != 0 {
			plusOrMinus = -plusOrMinus
		}
		if jumpOrCrouchActive {
			rotation = game.RotationYXZ(yaw, 0, 0)
		} else {
			rotation = game.RotationYXZ(mgl32.DegToRad(sc.in.Yaw), 0, mgl32.DegToRad(rollAmount*plusOrMinus))
		}
		*desiredVelocity = rotation.Rotate(*desiredVelocity)
	default:
		// Facing away from the surface.
		*desiredVelocity = rotation.Rotate(*desiredVelocity)
		clearMovementToDirection = false
	}

	if clearMovementToDirection {
		if climbDir[0] != 0 {
			desiredVelocity[0] = 0
		}
		if climbDir[2] != 0 {
			desiredVelocity[2] = 0
		}
	}
}
