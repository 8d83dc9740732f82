package world

import (
	"github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/charsim/game"
)

// Info converts a dragonfly block at the position passed into a BlockInfo. The source is
// used to resolve block models that depend on their neighbours.
func Info(b world.Block, pos df_cube.Pos, src world.BlockSource) BlockInfo {
	if _, isAir := b.(block.Air); isAir {
		return Air
	}

	info := BlockInfo{Name: BlockName(b)}
	if _, ok := b.(world.Liquid); ok {
		info.Liquid = true
	}

	switch b := b.(type) {
	case block.Ladder:
		info.Climbable = true
		info.ClimbNormal = cube.Pos{}.Side(cube.Face(b.Facing.Face()))
	default:
		info.Climbable = climbableByName(info.Name)
	}

	if Passable(info.Name) {
		return info
	}
	dfBoxes := b.Model().BBox(pos, src)
	info.Boxes = make([]cube.BBox, len(dfBoxes))
	for i, bb := range dfBoxes {
		info.Boxes[i] = game.DFBoxToCubeBox(bb)
	}
	return info
}

// BlockName returns the name of the block.
func BlockName(b world.Block) string {
	n, _ := b.EncodeBlock()
	return n
}

// Passable returns true if characters move through the block without colliding.
func Passable(name string) bool {
	switch name {
	case "minecraft:web", "minecraft:portal", "minecraft:end_portal",
		"minecraft:tallgrass", "minecraft:fern", "minecraft:large_fern",
		"minecraft:red_mushroom", "minecraft:brown_mushroom":
		return true
	}
	return climbableByName(name) && name != "minecraft:ladder"
}

func climbableByName(name string) bool {
	switch name {
	case "minecraft:ladder", "minecraft:vine", "minecraft:cave_vines", "minecraft:cave_vines_body_with_berries",
		"minecraft:cave_vines_head_with_berries", "minecraft:twisting_vines", "minecraft:weeping_vines",
		"minecraft:scaffolding":
		return true
	default:
		return false
	}
}
