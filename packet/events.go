package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Events forwards the movement events of a character to the clients observing it.
type Events struct {
	EntityID uint64
	// Data holds the encoded events, concatenated.
	Data []byte
}

// FromEvents ...
func FromEvents(entityID uint64, evs []event.Event) *Events {
	return &Events{EntityID: entityID, Data: event.EncodeAll(evs)}
}

// Events decodes the events carried by the packet.
func (pk *Events) Events() ([]event.Event, error) {
	return event.DecodeEvents(pk.Data)
}

// ID ...
func (*Events) ID() uint32 {
	return IDEvents
}

func (pk *Events) Marshal(io protocol.IO) {
	io.Uint64(&pk.EntityID)
	io.ByteSlice(&pk.Data)
}

// Teleport moves a character without simulating the movement. Sequence is the last input the
// authority applied before the move, so that its owner can place the move in its prediction.
type Teleport struct {
	EntityID uint64
	Sequence int32
	Position mgl32.Vec3
}

// ID ...
func (*Teleport) ID() uint32 {
	return IDTeleport
}

func (pk *Teleport) Marshal(io protocol.IO) {
	io.Uint64(&pk.EntityID)
	io.Int32(&pk.Sequence)
	io.Vec3(&pk.Position)
}
