package world

import (
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
)

// World is an in-memory block store keyed by chunk. Only chunks that have been loaded
// are considered relevant for simulation; positions in any other chunk report as unloaded.
type World struct {
	lastCleanPos protocol.ChunkPos
	cleaned      bool

	chunks map[protocol.ChunkPos]map[df_cube.Pos]world.Block
	rng    cube.Range

	logger *slog.Logger

	deadlock.RWMutex
}

// New returns an empty World with the overworld height range.
func New(logger *slog.Logger) *World {
	return &World{
		chunks: make(map[protocol.ChunkPos]map[df_cube.Pos]world.Block),
		rng:    cube.Range(world.Overworld.Range()),
		logger: logger,
	}
}

// LoadChunk marks the chunk at the position passed as loaded. A loaded chunk without
// any blocks set is entirely air.
func (w *World) LoadChunk(chunkPos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	if _, ok := w.chunks[chunkPos]; !ok {
		w.chunks[chunkPos] = make(map[df_cube.Pos]world.Block)
	}
}

// UnloadChunk removes the chunk and all of its blocks from the world.
func (w *World) UnloadChunk(chunkPos protocol.ChunkPos) {
	w.Lock()
	delete(w.chunks, chunkPos)
	w.Unlock()
}

// ChunkLoaded returns true if the chunk at the position passed is loaded.
func (w *World) ChunkLoaded(chunkPos protocol.ChunkPos) bool {
	w.RLock()
	_, ok := w.chunks[chunkPos]
	w.RUnlock()

	return ok
}

// Block returns the block at the position passed. Block satisfies dragonfly's
// world.BlockSource so block models can be resolved against the World.
func (w *World) Block(pos df_cube.Pos) world.Block {
	if cube.Pos(pos).OutOfBounds(w.rng) {
		return block.Air{}
	}

	w.RLock()
	defer w.RUnlock()

	c, ok := w.chunks[chunkPosOf(pos)]
	if !ok {
		return block.Air{}
	}
	if b, ok := c[pos]; ok {
		return b
	}
	return block.Air{}
}

// SetBlock sets the block at the position passed, loading its chunk if needed.
// Setting air removes the entry.
func (w *World) SetBlock(pos df_cube.Pos, b world.Block, _ *world.SetOpts) {
	if cube.Pos(pos).OutOfBounds(w.rng) {
		return
	}
	chunkPos := chunkPosOf(pos)

	w.Lock()
	defer w.Unlock()

	c, ok := w.chunks[chunkPos]
	if !ok {
		c = make(map[df_cube.Pos]world.Block)
		w.chunks[chunkPos] = c
	}
	if _, isAir := b.(block.Air); isAir || b == nil {
		delete(c, pos)
		return
	}
	c[pos] = b
}

// Fill sets every block in the inclusive region between a and b.
func (w *World) Fill(a, b cube.Pos, bl world.Block) {
	minX, maxX := min(a[0], b[0]), max(a[0], b[0])
	minY, maxY := min(a[1], b[1]), max(a[1], b[1])
	minZ, maxZ := min(a[2], b[2]), max(a[2], b[2])
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				w.SetBlock(df_cube.Pos{x, y, z}, bl, nil)
			}
		}
	}
}

// BlockAt ...
func (w *World) BlockAt(pos cube.Pos) BlockInfo {
	dfPos := df_cube.Pos(pos)
	return Info(w.Block(dfPos), dfPos, w)
}

// RegionLoaded returns true if the chunk containing the position passed is loaded.
func (w *World) RegionLoaded(pos mgl32.Vec3) bool {
	p := cube.PosFromVec3(pos)
	if p.OutOfBounds(w.rng) {
		return false
	}
	return w.ChunkLoaded(chunkPosOf(df_cube.Pos(p)))
}

// CleanChunks unloads every chunk outside the given radius of the chunk position passed.
func (w *World) CleanChunks(radius int32, pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	if w.cleaned && pos == w.lastCleanPos {
		return
	}
	w.lastCleanPos, w.cleaned = pos, true

	for chunkPos := range w.chunks {
		if chunkInRange(radius, chunkPos, pos) {
			continue
		}
		delete(w.chunks, chunkPos)
		if w.logger != nil {
			w.logger.Debug("unloaded chunk out of range", "chunkPos", chunkPos, "radius", radius, "pos", pos)
		}
	}
}

// ChunkCount returns the amount of chunks currently loaded.
func (w *World) ChunkCount() int {
	w.RLock()
	defer w.RUnlock()

	return len(w.chunks)
}

// ChunkPosOf returns the position of the chunk containing the world position passed.
func ChunkPosOf(pos mgl32.Vec3) protocol.ChunkPos {
	return chunkPosOf(df_cube.Pos(cube.PosFromVec3(pos)))
}

func chunkPosOf(pos df_cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos[0]) >> 4, int32(pos[2]) >> 4}
}

// chunkInRange returns true if the chunk position is within the given radius of the chunk position.
func chunkInRange(radius int32, chunkPos, pos protocol.ChunkPos) bool {
	diffX, diffZ := pos[0]-chunkPos[0], pos[1]-chunkPos[1]
	dist := math32.Sqrt(float32(diffX*diffX) + float32(diffZ*diffZ))

	return int32(dist) <= radius
}
