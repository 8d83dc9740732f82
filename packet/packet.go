package packet

import (
	"bytes"

	"github.com/oomph-ac/charsim/internal"
	"github.com/oomph-ac/charsim/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	IDInput uint32 = iota + 1
	IDState
	IDEvents
	IDTeleport
)

// Packet is a message exchanged between the authority and its clients.
type Packet interface {
	// ID returns the ID written in front of the packet in every frame.
	ID() uint32
	// Marshal encodes or decodes the packet, depending on the IO passed.
	Marshal(io protocol.IO)
}

var pool = map[uint32]func() Packet{
	IDInput:    func() Packet { return &Input{} },
	IDState:    func() Packet { return &State{} },
	IDEvents:   func() Packet { return &Events{} },
	IDTeleport: func() Packet { return &Teleport{} },
}

// Encode returns a frame holding the packet passed: its ID as a varuint32 followed by its body.
func Encode(pk Packet) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()

	w := protocol.NewWriter(buf, 0)
	id := pk.ID()
	w.Varuint32(&id)
	pk.Marshal(w)
	return bytes.Clone(buf.Bytes())
}

// Decode decodes a single frame produced by Encode.
func Decode(b []byte) (pk Packet, err error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()
	buf.Write(b)

	defer func() {
		if r := recover(); r != nil {
			pk, err = nil, oerror.New("error decoding packet: %v", r)
		}
	}()

	r := protocol.NewReader(buf, 0, false)
	var id uint32
	r.Varuint32(&id)

	pkFunc, ok := pool[id]
	if !ok {
		return nil, oerror.New("unknown packet ID: %d", id)
	}
	pk = pkFunc()
	pk.Marshal(r)
	if buf.Len() != 0 {
		return nil, oerror.New("%d unread bytes after packet %d", buf.Len(), id)
	}
	return pk, nil
}
