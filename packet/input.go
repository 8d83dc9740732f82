package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/movement"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	InputFlagRunning = 1 << iota
	InputFlagCrouching
	InputFlagJumping
)

// Input is sent by a client for every input it applies locally.
type Input struct {
	Sequence  int32
	Pitch     float32
	Yaw       float32
	Direction mgl32.Vec3
	// Flags is a combination of the InputFlag constants.
	Flags uint8
	// Delta is the time covered by the input in milliseconds.
	Delta int64
}

// FromInput ...
func FromInput(in movement.Input) *Input {
	pk := &Input{
		Sequence:  in.Sequence,
		Pitch:     in.Pitch,
		Yaw:       in.Yaw,
		Direction: in.Direction,
		Delta:     in.Delta,
	}
	if in.Running {
		pk.Flags |= InputFlagRunning
	}
	if in.Crouching {
		pk.Flags |= InputFlagCrouching
	}
	if in.Jumping {
		pk.Flags |= InputFlagJumping
	}
	return pk
}

// Movement returns the input as received by the authority, which applies it for the first time.
func (pk *Input) Movement() movement.Input {
	return movement.Input{
		Sequence:         pk.Sequence,
		Delta:            pk.Delta,
		Pitch:            pk.Pitch,
		Yaw:              pk.Yaw,
		Direction:        pk.Direction,
		Running:          pk.Flags&InputFlagRunning != 0,
		Crouching:        pk.Flags&InputFlagCrouching != 0,
		Jumping:          pk.Flags&InputFlagJumping != 0,
		FirstApplication: true,
	}
}

// ID ...
func (*Input) ID() uint32 {
	return IDInput
}

func (pk *Input) Marshal(io protocol.IO) {
	io.Int32(&pk.Sequence)
	io.Float32(&pk.Pitch)
	io.Float32(&pk.Yaw)
	io.Vec3(&pk.Direction)
	io.Uint8(&pk.Flags)
	io.Int64(&pk.Delta)
}
