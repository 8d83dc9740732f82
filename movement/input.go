package movement

import "github.com/go-gl/mathgl/mgl32"

// Input is the intent of a character for a single tick. Inputs are values and are never
// modified once created; Replay returns a modified copy instead.
type Input struct {
	// Sequence increases by one for every input produced by the same source.
	Sequence int32
	// Delta is the time covered by the input in milliseconds.
	Delta int64

	// Pitch and Yaw are the view angles in degrees. A positive pitch looks up.
	Pitch, Yaw float32
	// Direction is the world-space direction the character wants to move in. Its length
	// is clamped to 1 by the solver.
	Direction mgl32.Vec3

	Running   bool
	Crouching bool
	Jumping   bool

	// FirstApplication is true the first time an input is applied. Replays during
	// reconciliation set it to false so that events are not emitted twice.
	FirstApplication bool
}

// DeltaSeconds returns the time covered by the input in seconds.
func (in Input) DeltaSeconds() float32 {
	return float32(in.Delta) / 1000
}

// Replay returns a copy of the input marked as not being the first application.
func (in Input) Replay() Input {
	in.FirstApplication = false
	return in
}
