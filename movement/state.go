package movement

import (
	"encoding/binary"
	"math"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// State is a snapshot of a character's physical state. States are passed by value and
// a step always produces a new State, so chains of states never share memory.
type State struct {
	// Sequence is the sequence of the input that produced the state.
	Sequence int32
	// Time is the simulation time of the state in milliseconds.
	Time int64

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Mode     Mode
	Grounded bool
	Velocity mgl32.Vec3

	Yaw, Pitch float32
	// FootstepDelta is the fraction of the distance to the next footstep already covered.
	// It is always in [0, 1).
	FootstepDelta float32
	// ClimbDirection points from the character into the surface it is climbing. It is nil
	// unless the character is next to something climbable.
	ClimbDirection *cube.Pos
}

// NewState returns a walking State at the position passed.
func NewState(pos mgl32.Vec3) State {
	return State{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Mode:     ModeWalking,
	}
}

// Clone returns a copy of the state that shares no memory with it.
func (s State) Clone() State {
	if s.ClimbDirection != nil {
		dir := *s.ClimbDirection
		s.ClimbDirection = &dir
	}
	return s
}

// SetClimbDirection sets the climb direction to a copy of the position passed.
func (s *State) SetClimbDirection(dir cube.Pos) {
	s.ClimbDirection = &dir
}

// stateHashSize is the size of the canonical binary form of a State.
const stateHashSize = 4 + 8 + 12 + 16 + 1 + 1 + 12 + 4 + 4 + 4 + 1 + 12

// Hash returns an xxh3 digest of the state. Two states with the same hash are
// bit-identical for every field.
func (s State) Hash() uint64 {
	var b [stateHashSize]byte
	off := 0
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(b[off:], v)
		off += 4
	}
	putF32 := func(f float32) {
		putU32(math.Float32bits(f))
	}

	putU32(uint32(s.Sequence))
	binary.LittleEndian.PutUint64(b[off:], uint64(s.Time))
	off += 8
	for _, f := range s.Position {
		putF32(f)
	}
	putF32(s.Rotation.V[0])
	putF32(s.Rotation.V[1])
	putF32(s.Rotation.V[2])
	putF32(s.Rotation.W)
	b[off] = byte(s.Mode)
	off++
	if s.Grounded {
		b[off] = 1
	}
	off++
	for _, f := range s.Velocity {
		putF32(f)
	}
	putF32(s.Yaw)
	putF32(s.Pitch)
	putF32(s.FootstepDelta)
	if s.ClimbDirection != nil {
		b[off] = 1
		off++
		for _, v := range s.ClimbDirection {
			putU32(uint32(int32(v)))
		}
	}
	return xxh3.Hash(b[:])
}
