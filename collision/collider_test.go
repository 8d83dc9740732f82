package collision

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
	"github.com/oomph-ac/charsim/world"
)

type mockLookup map[cube.Pos]world.BlockInfo

func (l mockLookup) BlockAt(pos cube.Pos) world.BlockInfo {
	if b, ok := l[pos]; ok {
		return b
	}
	return world.Air
}

func (mockLookup) RegionLoaded(mgl32.Vec3) bool {
	return true
}

var fullBlock = world.BlockInfo{Name: "minecraft:stone", Boxes: []cube.BBox{cube.Box(0, 0, 0, 1, 1, 1)}}

// floor returns a lookup with a stone floor at y=0 covering x and z in [-n, n].
func floor(n int) mockLookup {
	l := mockLookup{}
	for x := -n; x <= n; x++ {
		for z := -n; z <= n; z++ {
			l[cube.Pos{x, 0, z}] = fullBlock
		}
	}
	return l
}

func TestSweepDown(t *testing.T) {
	c := NewBlockCollider(floor(2))
	box := game.ColliderBox(0.3, 1.6)

	res := c.Sweep(box, mgl32.Vec3{0.5, 2.8, 0.5}, mgl32.Vec3{0.5, 0.8, 0.5}, 0)
	if !res.Hit {
		t.Fatalf("expected to hit the floor")
	}
	if !mgl32.FloatEqualThreshold(res.Fraction, 0.5, 1e-5) {
		t.Fatalf("expected to hit halfway, got %v", res.Fraction)
	}
	if res.Normal != (mgl32.Vec3{0, 1, 0}) || res.Slope() != 1 {
		t.Fatalf("expected an upwards normal, got %v", res.Normal)
	}
}

func TestSweepPenetration(t *testing.T) {
	c := NewBlockCollider(floor(2))
	box := game.ColliderBox(0.3, 1.6)

	// Resting 0.01 above the floor, a penetration of 0.04 leaves 0.05 before contact.
	res := c.Sweep(box, mgl32.Vec3{0.5, 1.81, 0.5}, mgl32.Vec3{0.5, 1.71, 0.5}, 0.04)
	if !res.Hit || !mgl32.FloatEqualThreshold(res.Fraction, 0.5, 1e-4) {
		t.Fatalf("expected to hit halfway, got %+v", res)
	}
}

func TestSweepHorizontal(t *testing.T) {
	l := floor(3)
	l[cube.Pos{2, 1, 0}] = fullBlock
	c := NewBlockCollider(l)
	box := game.ColliderBox(0.3, 1.6)

	res := c.Sweep(box, mgl32.Vec3{0.5, 1.81, 0.5}, mgl32.Vec3{2.5, 1.81, 0.5}, 0.03)
	if !res.Hit {
		t.Fatalf("expected to hit the wall")
	}
	if res.Normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected the wall normal, got %v", res.Normal)
	}
	// The shrunk box reaches the wall after 2-0.27-0.5 blocks.
	if !mgl32.FloatEqualThreshold(res.Fraction, 1.23/2, 1e-4) {
		t.Fatalf("unexpected fraction %v", res.Fraction)
	}

	// Moving along the floor without walls does not touch it.
	res = c.Sweep(box, mgl32.Vec3{0.5, 1.81, 0.5}, mgl32.Vec3{0.5, 1.81, -1.5}, 0.03)
	if res.Hit || res.Fraction != 1 {
		t.Fatalf("expected a free sweep, got %+v", res)
	}
}

func TestSweepIgnoresOverlapping(t *testing.T) {
	c := NewBlockCollider(floor(2))
	box := game.ColliderBox(0.3, 1.6)

	// Embedded half a block into the floor, the character can move up out of it.
	res := c.Sweep(box, mgl32.Vec3{0.5, 1.3, 0.5}, mgl32.Vec3{0.5, 2.3, 0.5}, 0.03)
	if res.Hit {
		t.Fatalf("expected overlapped blocks to be ignored, got %+v", res)
	}
}

func TestCheckForStep(t *testing.T) {
	low := world.BlockInfo{Name: "minecraft:carpet", Boxes: []cube.BBox{cube.Box(0, 0, 0, 1, 0.25, 1)}}
	box := game.ColliderBox(0.3, 1.6)
	pos := mgl32.Vec3{1.69, 1.81, 0.5}
	wall := mgl32.Vec3{-1, 0, 0}

	l := floor(3)
	l[cube.Pos{2, 1, 0}] = low
	c := NewBlockCollider(l)
	hit := c.Sweep(box, pos, pos.Add(mgl32.Vec3{0.5, 0, 0}), game.HorizontalPenetration)
	if !hit.Hit || hit.Normal != wall {
		t.Fatalf("expected to hit the step, got %+v", hit)
	}
	if !c.CheckForStep(box, pos, hit, mgl32.Vec3{1, 0, 0}, 0.35, 0.6, game.CheckForwardDistance) {
		t.Fatalf("expected to step onto a 0.25 block")
	}
	if c.CheckForStep(box, pos, hit, mgl32.Vec3{1, 0, 0}, 0, 0.6, game.CheckForwardDistance) {
		t.Fatalf("expected no step without a step height")
	}
	if c.CheckForStep(box, pos, hit, mgl32.Vec3{0, 1, 0}, 0.35, 0.6, game.CheckForwardDistance) {
		t.Fatalf("expected no step without a horizontal direction")
	}

	l[cube.Pos{2, 1, 0}] = fullBlock
	if c.CheckForStep(box, pos, hit, mgl32.Vec3{1, 0, 0}, 0.35, 0.6, game.CheckForwardDistance) {
		t.Fatalf("expected no step onto a full block")
	}
}
