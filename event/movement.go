package event

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// FootstepEvent is emitted every time a walking character covers the distance between footsteps.
type FootstepEvent struct {
	NopEvent
}

func (FootstepEvent) ID() byte {
	return EventIDFootstep
}

func (ev FootstepEvent) Encode() []byte {
	return encode(ev, nil)
}

// SwimStrokeEvent is the FootstepEvent counterpart for swimming and diving characters.
type SwimStrokeEvent struct {
	NopEvent

	// Block is the name of the liquid the character is swimming in.
	Block string
}

func (SwimStrokeEvent) ID() byte {
	return EventIDSwimStroke
}

func (ev SwimStrokeEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeString(buf, ev.Block)
	})
}

// JumpEvent is emitted when a character jumps, both from the ground and in mid-air.
type JumpEvent struct {
	NopEvent
}

func (JumpEvent) ID() byte {
	return EventIDJump
}

func (ev JumpEvent) Encode() []byte {
	return encode(ev, nil)
}

// HorizontalCollisionEvent is emitted when a character's horizontal movement is blocked.
type HorizontalCollisionEvent struct {
	NopEvent

	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

func (HorizontalCollisionEvent) ID() byte {
	return EventIDHorizontalCollision
}

func (ev HorizontalCollisionEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeVec3(buf, ev.Position)
		writeVec3(buf, ev.Velocity)
	})
}

// VerticalCollisionEvent is emitted when a character lands or hits a ceiling. Velocity
// is the velocity at the moment of impact.
type VerticalCollisionEvent struct {
	NopEvent

	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

func (VerticalCollisionEvent) ID() byte {
	return EventIDVerticalCollision
}

func (ev VerticalCollisionEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeVec3(buf, ev.Position)
		writeVec3(buf, ev.Velocity)
	})
}

// EnterBlockEvent is emitted for each vertical slice of a character whose block changed
// during a step. Slice 0 is the block at the character's position.
type EnterBlockEvent struct {
	NopEvent

	Old, New string
	Slice    int32
}

func (EnterBlockEvent) ID() byte {
	return EventIDEnterBlock
}

func (ev EnterBlockEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeString(buf, ev.Old)
		writeString(buf, ev.New)
		binary.Write(buf, binary.LittleEndian, ev.Slice)
	})
}
