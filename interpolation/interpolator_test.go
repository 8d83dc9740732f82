package interpolation

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
	"github.com/oomph-ac/charsim/movement"
)

func state(t int64, pos, vel mgl32.Vec3) movement.State {
	s := movement.NewState(pos)
	s.Time = t
	s.Velocity = vel
	return s
}

func TestSampleInterpolates(t *testing.T) {
	i := New(StateBufferCapacity, RenderDelay)
	i.Push(state(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{}))
	i.Push(state(200, mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}))

	s, ok := i.Sample(200)
	if !ok {
		t.Fatalf("expected a sample")
	}
	if s.Extrapolated {
		t.Fatalf("expected an interpolated sample")
	}
	if !game.Vec3ApproxEq(s.Position, mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("expected halfway position, got %v", s.Position)
	}
}

func TestSampleRotation(t *testing.T) {
	i := New(4, 0)
	a := state(0, mgl32.Vec3{}, mgl32.Vec3{})
	a.Rotation = mgl32.QuatRotate(mgl32.DegToRad(170), mgl32.Vec3{0, 1, 0})
	a.Yaw = 170
	b := state(100, mgl32.Vec3{}, mgl32.Vec3{})
	b.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-170), mgl32.Vec3{0, 1, 0})
	b.Yaw = -170
	i.Push(a)
	i.Push(b)

	s, _ := i.Sample(50)
	want := mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0})
	if !s.Rotation.OrientationEqualThreshold(want, 1e-4) {
		t.Fatalf("expected rotation along the shortest path %v, got %v", want, s.Rotation)
	}
	if !mgl32.FloatEqualThreshold(s.Yaw, 180, 1e-3) {
		t.Fatalf("expected yaw to wrap along the shortest path, got %v", s.Yaw)
	}
}

func TestSampleExtrapolates(t *testing.T) {
	i := New(StateBufferCapacity, RenderDelay)
	i.Push(state(1000, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 0, -4}))

	s, ok := i.Sample(1150)
	if !ok || !s.Extrapolated {
		t.Fatalf("expected an extrapolated sample, got %+v", s)
	}
	if !game.Vec3ApproxEq(s.Position, mgl32.Vec3{1.1, 2, 2.8}) {
		t.Fatalf("expected position + velocity * 0.05, got %v", s.Position)
	}
}

func TestSampleBeforeOldest(t *testing.T) {
	i := New(StateBufferCapacity, RenderDelay)
	if _, ok := i.Sample(0); ok {
		t.Fatalf("expected no sample without states")
	}

	i.Push(state(500, mgl32.Vec3{7, 0, 0}, mgl32.Vec3{1, 0, 0}))
	s, ok := i.Sample(100)
	if !ok || s.Position != (mgl32.Vec3{7, 0, 0}) || s.Extrapolated {
		t.Fatalf("expected the oldest state, got %+v", s)
	}
}

func TestPushDropsOutOfOrder(t *testing.T) {
	i := New(StateBufferCapacity, RenderDelay)
	if !i.Push(state(100, mgl32.Vec3{}, mgl32.Vec3{})) {
		t.Fatalf("expected the first state to be kept")
	}
	if i.Push(state(50, mgl32.Vec3{}, mgl32.Vec3{})) || i.Push(state(100, mgl32.Vec3{}, mgl32.Vec3{})) {
		t.Fatalf("expected out of order states to be dropped")
	}
	if i.Len() != 1 {
		t.Fatalf("expected a single state, got %d", i.Len())
	}
}

func TestInterpolatorCapacity(t *testing.T) {
	i := New(2, 0)
	for n := int64(0); n < 5; n++ {
		i.Push(state(n*100, mgl32.Vec3{float32(n), 0, 0}, mgl32.Vec3{}))
	}
	// Only the states at 300 and 400 are left, so 100 falls before the oldest state.
	s, _ := i.Sample(100)
	if s.Position != (mgl32.Vec3{3, 0, 0}) {
		t.Fatalf("expected the oldest remaining state, got %v", s.Position)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(8, 50*time.Millisecond)
	a := r.Get(1)
	if r.Get(1) != a {
		t.Fatalf("expected the same interpolator for the same entity")
	}
	r.Get(2)

	n := 0
	r.Range(func(uint64, *Interpolator) bool {
		n++
		return true
	})
	if n != 2 {
		t.Fatalf("expected 2 interpolators, got %d", n)
	}

	r.Remove(1)
	if r.Get(1) == a {
		t.Fatalf("expected a new interpolator after removal")
	}
	r.Clear()
	n = 0
	r.Range(func(uint64, *Interpolator) bool {
		n++
		return true
	})
	if n != 0 {
		t.Fatalf("expected no interpolators after clear, got %d", n)
	}
}
