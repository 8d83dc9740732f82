package game

import (
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// DFBoxToCubeBox converts a dragonfly bounding box to a float32-cube bounding box.
func DFBoxToCubeBox(b df_cube.BBox) cube.BBox {
	return cube.Box(
		float32(b.Min().X()), float32(b.Min().Y()), float32(b.Min().Z()),
		float32(b.Max().X()), float32(b.Max().Y()), float32(b.Max().Z()),
	)
}

// ColliderBox returns a box of the given radius and height centred on the origin.
func ColliderBox(radius, height float32) cube.BBox {
	h := height / 2
	return cube.Box(
		-radius, -h, -radius,
		radius, h, radius,
	)
}

// BoxesOverlap returns true if the interiors of both boxes intersect. Boxes that only
// touch along a face do not overlap.
func BoxesOverlap(a, b cube.BBox) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	return aMax[0] > bMin[0] && aMin[0] < bMax[0] &&
		aMax[1] > bMin[1] && aMin[1] < bMax[1] &&
		aMax[2] > bMin[2] && aMin[2] < bMax[2]
}

// BlockRange returns the inclusive range of block positions the box passed touches.
func BlockRange(b cube.BBox) (cube.Pos, cube.Pos) {
	return cube.PosFromVec3(b.Min()), cube.PosFromVec3(b.Max().Sub(mgl32.Vec3{1e-6, 1e-6, 1e-6}))
}
