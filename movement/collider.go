package movement

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Sweep is the result of moving a collider along a path.
type Sweep struct {
	// Hit is true if the collider made contact with terrain along the path.
	Hit bool
	// Fraction is the fraction of the path travelled before the first contact. It is 1
	// if nothing was hit.
	Fraction float32
	// Normal is the surface normal at the first contact.
	Normal mgl32.Vec3
}

// Slope returns how much the contact surface faces upwards: 1 for a floor, 0 for a wall
// and -1 for a ceiling.
func (s Sweep) Slope() float32 {
	return s.Normal.Dot(mgl32.Vec3{0, 1, 0})
}

// Collider performs the collision queries used by the solver. The box passed is the
// shape of the character relative to its position.
type Collider interface {
	// Sweep moves the box from one position to another and reports the first contact.
	// Terrain the box overlaps by less than allowedPenetration is ignored.
	Sweep(box cube.BBox, from, to mgl32.Vec3, allowedPenetration float32) Sweep
	// CheckForStep returns true if the box at the position passed, blocked by the sweep
	// passed, can step up at most stepHeight onto a surface no steeper than slopeFactor
	// found within forward units along direction.
	CheckForStep(box cube.BBox, pos mgl32.Vec3, hit Sweep, direction mgl32.Vec3, stepHeight, slopeFactor, forward float32) bool
}
