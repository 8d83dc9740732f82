package packet

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// State is an authoritative state of a character, sent to its owner for reconciliation and
// to every other client for interpolation.
type State struct {
	EntityID uint64

	Sequence int32
	Time     int64
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Mode     uint8
	Grounded bool
	Velocity mgl32.Vec3

	Yaw           float32
	Pitch         float32
	FootstepDelta float32

	ClimbDirection protocol.Optional[protocol.BlockPos]
}

// FromState ...
func FromState(entityID uint64, s movement.State) *State {
	pk := &State{
		EntityID:      entityID,
		Sequence:      s.Sequence,
		Time:          s.Time,
		Position:      s.Position,
		Rotation:      s.Rotation,
		Mode:          uint8(s.Mode),
		Grounded:      s.Grounded,
		Velocity:      s.Velocity,
		Yaw:           s.Yaw,
		Pitch:         s.Pitch,
		FootstepDelta: s.FootstepDelta,
	}
	if s.ClimbDirection != nil {
		dir := *s.ClimbDirection
		pk.ClimbDirection = protocol.Option(protocol.BlockPos{int32(dir[0]), int32(dir[1]), int32(dir[2])})
	}
	return pk
}

// Movement returns the state carried by the packet. It returns an error if the mode is unknown.
func (pk *State) Movement() (movement.State, error) {
	mode := movement.Mode(pk.Mode)
	if !mode.Valid() {
		return movement.State{}, oerror.New("unknown movement mode %d in state %d", pk.Mode, pk.Sequence)
	}
	s := movement.State{
		Sequence:      pk.Sequence,
		Time:          pk.Time,
		Position:      pk.Position,
		Rotation:      pk.Rotation,
		Mode:          mode,
		Grounded:      pk.Grounded,
		Velocity:      pk.Velocity,
		Yaw:           pk.Yaw,
		Pitch:         pk.Pitch,
		FootstepDelta: pk.FootstepDelta,
	}
	if dir, ok := pk.ClimbDirection.Value(); ok {
		s.SetClimbDirection(cube.Pos{int(dir[0]), int(dir[1]), int(dir[2])})
	}
	return s, nil
}

// ID ...
func (*State) ID() uint32 {
	return IDState
}

func (pk *State) Marshal(io protocol.IO) {
	io.Uint64(&pk.EntityID)
	io.Int32(&pk.Sequence)
	io.Int64(&pk.Time)
	io.Vec3(&pk.Position)
	io.Float32(&pk.Rotation.V[0])
	io.Float32(&pk.Rotation.V[1])
	io.Float32(&pk.Rotation.V[2])
	io.Float32(&pk.Rotation.W)
	io.Uint8(&pk.Mode)
	io.Bool(&pk.Grounded)
	io.Vec3(&pk.Velocity)
	io.Float32(&pk.Yaw)
	io.Float32(&pk.Pitch)
	io.Float32(&pk.FootstepDelta)
	protocol.OptionalFunc(io, &pk.ClimbDirection, io.BlockPos)
}
