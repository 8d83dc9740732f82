package collision

import (
	"math"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/world"
)

// boxReach is how far block collision boxes may extend past their own block, as fences and
// walls do.
const boxReach = 0.5

// BlockCollider resolves sweeps of axis-aligned boxes against the collision boxes of the
// blocks in a world.
type BlockCollider struct {
	world world.Lookup
}

// NewBlockCollider returns a BlockCollider querying the Lookup passed.
func NewBlockCollider(w world.Lookup) *BlockCollider {
	return &BlockCollider{world: w}
}

// Sweep moves the box from one position to another and returns the first block box it
// hits. Block boxes the box already overlaps at the start are ignored so that a character
// embedded in terrain can always move out of it.
func (c *BlockCollider) Sweep(box cube.BBox, from, to mgl32.Vec3, allowedPenetration float32) movement.Sweep {
	start := box.Grow(-allowedPenetration).Translate(from)
	delta := to.Sub(from)
	result := movement.Sweep{Fraction: 1}

	for _, bb := range c.boxesNear(sweptBox(start, delta)) {
		if game.BoxesOverlap(start, bb) {
			continue
		}
		t, normal, ok := sweepBox(start, bb, delta)
		if !ok || t >= result.Fraction {
			continue
		}
		result = movement.Sweep{Hit: true, Fraction: t, Normal: normal}
	}
	return result
}

// CheckForStep returns true if the obstacle hit is low enough to step over: the box raised
// by the step height and moved forward past the obstacle must be clear. Block boxes have
// flat tops, so any step found is level.
func (c *BlockCollider) CheckForStep(box cube.BBox, pos mgl32.Vec3, hit movement.Sweep, direction mgl32.Vec3, stepHeight, slopeFactor, forward float32) bool {
	if stepHeight <= 0 || slopeFactor > 1 {
		return false
	}
	if slope := hit.Slope(); slope >= slopeFactor || slope < -game.Epsilon {
		return false
	}
	dir, ok := game.SafeNormalize(mgl32.Vec3{direction[0], 0, direction[2]})
	if !ok {
		return false
	}

	raisedPos := pos.Add(mgl32.Vec3{0, stepHeight, 0}).Add(dir.Mul(forward + game.HorizontalPenetration))
	raised := box.Grow(-game.HorizontalPenetration).Translate(raisedPos)
	for _, bb := range c.boxesNear(raised) {
		if game.BoxesOverlap(raised, bb) {
			return false
		}
	}
	return true
}

// boxesNear returns the world-space collision boxes of all blocks that may intersect the
// box passed.
func (c *BlockCollider) boxesNear(area cube.BBox) []cube.BBox {
	minPos, maxPos := game.BlockRange(area.Grow(boxReach))
	var boxes []cube.BBox
	for x := minPos[0]; x <= maxPos[0]; x++ {
		for y := minPos[1]; y <= maxPos[1]; y++ {
			for z := minPos[2]; z <= maxPos[2]; z++ {
				pos := cube.Pos{x, y, z}
				info := c.world.BlockAt(pos)
				for _, bb := range info.Boxes {
					boxes = append(boxes, bb.Translate(pos.Vec3()))
				}
			}
		}
	}
	return boxes
}

// sweptBox returns the box covering every position of the box passed moved along delta.
func sweptBox(b cube.BBox, delta mgl32.Vec3) cube.BBox {
	lo, hi := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if delta[i] < 0 {
			lo[i] += delta[i]
		} else {
			hi[i] += delta[i]
		}
	}
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

// sweepBox returns the fraction of delta the moving box travels before touching the
// stationary box, and the normal of the face it touches. Ties between axes prefer the
// vertical axis so that boxes sliding along a floor land on it rather than catching its edge.
func sweepBox(moving, stationary cube.BBox, delta mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	mMin, mMax := moving.Min(), moving.Max()
	sMin, sMax := stationary.Min(), stationary.Max()

	entry, exit := float32(-math.MaxFloat32), float32(math.MaxFloat32)
	axis := -1
	for _, i := range [3]int{1, 0, 2} {
		if delta[i] == 0 {
			if mMax[i] <= sMin[i] || mMin[i] >= sMax[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		var axisEntry, axisExit float32
		if delta[i] > 0 {
			axisEntry = (sMin[i] - mMax[i]) / delta[i]
			axisExit = (sMax[i] - mMin[i]) / delta[i]
		} else {
			axisEntry = (sMax[i] - mMin[i]) / delta[i]
			axisExit = (sMin[i] - mMax[i]) / delta[i]
		}
		if axisEntry > entry {
			entry, axis = axisEntry, i
		}
		exit = min(exit, axisExit)
	}

	if axis == -1 || entry >= exit || entry < 0 || entry > 1 {
		return 0, mgl32.Vec3{}, false
	}
	var normal mgl32.Vec3
	if delta[axis] > 0 {
		normal[axis] = -1
	} else {
		normal[axis] = 1
	}
	return entry, normal, true
}
