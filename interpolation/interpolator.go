package interpolation

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/utils"
)

const (
	// StateBufferCapacity is the default amount of states kept per remote character.
	StateBufferCapacity = 128
	// RenderDelay is the default delay remote characters are rendered behind the newest state.
	RenderDelay = 100 * time.Millisecond
)

// Sample is the transform of a remote character at a point in time.
type Sample struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Mode     movement.Mode

	Yaw, Pitch float32
	// Extrapolated is true if the sample was projected past the newest state.
	Extrapolated bool
}

// Interpolator renders a remote character a fixed delay in the past, blending between the
// two authoritative states around the render time. It is safe for concurrent use.
type Interpolator struct {
	states      *utils.RingBuffer[movement.State]
	renderDelay time.Duration

	mu sync.Mutex
}

// New returns an Interpolator keeping up to capacity states.
func New(capacity int, renderDelay time.Duration) *Interpolator {
	return &Interpolator{
		states:      utils.NewRingBuffer[movement.State](capacity),
		renderDelay: renderDelay,
	}
}

// Push adds an authoritative state. States that are not newer than the newest state already
// in the buffer arrived out of order and are dropped.
func (i *Interpolator) Push(s movement.State) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if latest, ok := i.states.Latest(); ok && s.Time <= latest.Time {
		return false
	}
	i.states.Add(s.Clone())
	return true
}

// Sample returns the transform at the time passed minus the render delay. It returns false
// if no state was pushed yet.
func (i *Interpolator) Sample(now int64) (Sample, bool) {
	return i.SampleAt(now - i.renderDelay.Milliseconds())
}

// SampleAt returns the transform at the render time passed. Between two states the position
// is interpolated linearly and the rotation along the shortest path. Past the newest state
// the position is extrapolated using its velocity. Before the oldest state, the oldest state
// is returned as is.
func (i *Interpolator) SampleAt(renderTime int64) (Sample, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var (
		prev, next       movement.State
		hasPrev, hasNext bool
	)
	for s := range i.states.All() {
		if s.Time <= renderTime {
			prev, hasPrev = s, true
			continue
		}
		next, hasNext = s, true
		break
	}

	switch {
	case hasPrev && hasNext:
		t := float32(renderTime-prev.Time) / float32(next.Time-prev.Time)
		return Sample{
			Position: lerp(prev.Position, next.Position, t),
			Rotation: nlerp(prev.Rotation, next.Rotation, t),
			Mode:     prev.Mode,
			Yaw:      prev.Yaw + game.WrapYawDelta(next.Yaw-prev.Yaw)*t,
			Pitch:    prev.Pitch + (next.Pitch-prev.Pitch)*t,
		}, true
	case hasPrev:
		dt := float32(renderTime-prev.Time) / 1000
		s := fromState(prev)
		s.Position = prev.Position.Add(prev.Velocity.Mul(dt))
		s.Extrapolated = true
		return s, true
	case hasNext:
		return fromState(next), true
	}
	return Sample{}, false
}

// Len returns the amount of states buffered.
func (i *Interpolator) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.states.Len()
}

// Clear drops all buffered states.
func (i *Interpolator) Clear() {
	i.mu.Lock()
	i.states.Clear()
	i.mu.Unlock()
}

func fromState(s movement.State) Sample {
	return Sample{
		Position: s.Position,
		Rotation: s.Rotation,
		Mode:     s.Mode,
		Yaw:      s.Yaw,
		Pitch:    s.Pitch,
	}
}

// nlerp interpolates between two rotations along the shortest path.
func nlerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatNlerp(a, b, t)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
