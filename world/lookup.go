package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BlockInfo is the movement-relevant description of a single block.
type BlockInfo struct {
	// Name is the identifier of the block, such as "minecraft:water".
	Name string
	// Liquid is true if characters overlapping the block are submerged in it.
	Liquid bool
	// Climbable is true for ladders, vines and other blocks a character can climb.
	Climbable bool
	// ClimbNormal is the outward, axis-aligned normal of the climbable face. It is the
	// zero position if the block can be climbed from any side.
	ClimbNormal cube.Pos
	// Boxes are the collision boxes of the block, relative to the block's origin.
	Boxes []cube.BBox
}

// Air is the BlockInfo returned for empty or unknown positions.
var Air = BlockInfo{Name: "minecraft:air"}

// Lookup answers block occupancy queries. Implementations must not block on
// terrain that is not loaded; RegionLoaded reports false for such positions instead.
type Lookup interface {
	// BlockAt returns the block at the integer position passed.
	BlockAt(pos cube.Pos) BlockInfo
	// RegionLoaded returns true if the terrain around the world position passed
	// is available for simulation.
	RegionLoaded(pos mgl32.Vec3) bool
}

// BlockAtVec returns the block occupying the world position passed.
func BlockAtVec(l Lookup, v mgl32.Vec3) BlockInfo {
	return l.BlockAt(cube.PosFromVec3(v))
}
