package movement

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/world"
)

type mockLookup struct {
	blocks   map[cube.Pos]world.BlockInfo
	unloaded bool
}

func (l *mockLookup) BlockAt(pos cube.Pos) world.BlockInfo {
	if b, ok := l.blocks[pos]; ok {
		return b
	}
	return world.Air
}

func (l *mockLookup) RegionLoaded(mgl32.Vec3) bool {
	return !l.unloaded
}

type plane struct {
	point, normal mgl32.Vec3
}

func newPlane(point, normal mgl32.Vec3) plane {
	return plane{point: point, normal: normal.Normalize()}
}

// planeCollider collides boxes against infinite planes. Boxes starting behind a plane
// pass through it.
type planeCollider struct {
	planes []plane
	step   bool
}

func (c *planeCollider) Sweep(box cube.BBox, from, to mgl32.Vec3, allowedPenetration float32) Sweep {
	b := box.Grow(-allowedPenetration)
	half := b.Max().Sub(b.Min()).Mul(0.5)

	res := Sweep{Fraction: 1}
	for _, p := range c.planes {
		reach := math32.Abs(p.normal[0])*half[0] + math32.Abs(p.normal[1])*half[1] + math32.Abs(p.normal[2])*half[2]
		sFrom := from.Sub(p.point).Dot(p.normal) - reach
		sTo := to.Sub(p.point).Dot(p.normal) - reach
		if sFrom < 0 || sTo >= 0 {
			continue
		}
		if t := sFrom / (sFrom - sTo); t < res.Fraction {
			res = Sweep{Hit: true, Fraction: t, Normal: p.normal}
		}
	}
	return res
}

func (c *planeCollider) CheckForStep(cube.BBox, mgl32.Vec3, Sweep, mgl32.Vec3, float32, float32, float32) bool {
	return c.step
}

func floorCollider() *planeCollider {
	return &planeCollider{planes: []plane{newPlane(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})}}
}

func newTestContext(col Collider, l *mockLookup) (*Context, *event.Recorder) {
	if l == nil {
		l = &mockLookup{}
	}
	params := DefaultParams()
	rec := &event.Recorder{}
	return &Context{
		Params:   &params,
		World:    l,
		Collider: col,
		Events:   rec,
	}, rec
}

func input(seq int32, dir mgl32.Vec3) Input {
	return Input{
		Sequence:         seq,
		Delta:            50,
		Direction:        dir,
		FirstApplication: true,
	}
}

// standingState returns a grounded state resting on a floor plane at y=0.
func standingState() State {
	s := NewState(mgl32.Vec3{0, 0.81, 0})
	s.Grounded = true
	return s
}

func stepN(m *Mover, s State, ctx *Context, n int, in func(seq int32) Input) State {
	for i := 0; i < n; i++ {
		s = m.Step(s, in(s.Sequence+1), ctx)
	}
	return s
}
