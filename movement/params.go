package movement

import (
	"github.com/oomph-ac/charsim/oerror"
)

// Params are the per-character movement parameters. Unlike State, Params are owned by the
// character and persist between steps; the solver writes jump counts back to them.
type Params struct {
	Height      float32
	Radius      float32
	StepHeight  float32
	SlopeFactor float32

	SpeedMultiplier float32
	RunFactor       float32
	JumpSpeed       float32

	BaseJumpsMax int
	JumpsMax     int
	JumpsLeft    int

	DistanceBetweenFootsteps float32
	FaceMovementDirection    bool
}

// DefaultParams returns the parameters of a regular humanoid character.
func DefaultParams() Params {
	return Params{
		Height:      1.6,
		Radius:      0.3,
		StepHeight:  0.35,
		SlopeFactor: 0.6,

		SpeedMultiplier: 1,
		RunFactor:       1.5,
		JumpSpeed:       10,

		BaseJumpsMax: 1,
		JumpsMax:     1,

		DistanceBetweenFootsteps: 1,
	}
}

// Validate returns an error if any of the parameters cannot be simulated.
func (p Params) Validate() error {
	switch {
	case p.Height <= 0:
		return oerror.New("height must be positive (got %v)", p.Height)
	case p.Radius <= 0:
		return oerror.New("radius must be positive (got %v)", p.Radius)
	case p.StepHeight < 0:
		return oerror.New("step height cannot be negative (got %v)", p.StepHeight)
	case p.DistanceBetweenFootsteps <= 0:
		return oerror.New("distance between footsteps must be positive (got %v)", p.DistanceBetweenFootsteps)
	case p.BaseJumpsMax < 0:
		return oerror.New("max jumps cannot be negative (got %d)", p.BaseJumpsMax)
	}
	return nil
}

// SetHeight changes the height of the character.
func (p *Params) SetHeight(height float32) error {
	if height <= 0 {
		return oerror.New("height must be positive (got %v)", height)
	}
	p.Height = height
	return nil
}

// Scale grows or shrinks the character by the factor passed.
func (p *Params) Scale(factor float32) error {
	if factor <= 0 {
		return oerror.New("scale factor must be positive (got %v)", factor)
	}
	p.Height *= factor
	p.Radius *= factor
	p.StepHeight *= factor
	return nil
}
