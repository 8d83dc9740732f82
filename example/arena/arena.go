package arena

import (
	"github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Spawn is the position characters are spawned at, standing on the floor.
var Spawn = mgl32.Vec3{0.5, 1.81, 0.5}

// Build fills the world passed with the arena shared by the example server and client: a
// stone floor with carpet steps, a laddered wall and a pool of water.
func Build(w *world.World) {
	for x := int32(-2); x < 2; x++ {
		for z := int32(-2); z < 2; z++ {
			w.LoadChunk(protocol.ChunkPos{x, z})
		}
	}
	w.Fill(cube.Pos{-32, 0, -32}, cube.Pos{31, 0, 31}, block.Stone{})

	carpet := block.Carpet{Colour: item.ColourRed()}
	w.Fill(cube.Pos{4, 1, -3}, cube.Pos{4, 1, 3}, carpet)

	w.Fill(cube.Pos{12, 1, -3}, cube.Pos{12, 6, 3}, block.Stone{})
	w.Fill(cube.Pos{11, 1, 0}, cube.Pos{11, 6, 0}, block.Ladder{Facing: df_cube.West})

	w.Fill(cube.Pos{-12, 1, -12}, cube.Pos{-6, 2, -6}, block.Water{Still: true, Depth: 8})
}
