package world

import (
	"math"
	"sync"

	"skycarpet/internal/config"
	"skycarpet/internal/meshing"
	"skycarpet/internal/profiling"
	"skycarpet/internal/terrain"
)

// World owns the terrain generation stack for one seed and the set of built
// chunks around the camera. Chunk builds run synchronously inside Update,
// budgeted per call, so the frame loop decides how much terrain work a frame
// absorbs. The height cache inside the stack is the only mutable shared
// state; the chunk map carries its own lock for the renderer snapshot.
type World struct {
	cfg config.Config

	synth   *terrain.Synthesizer
	cache   *terrain.HeightCache
	colors  *terrain.Classifier
	builder *meshing.Builder

	mu       sync.RWMutex
	chunks   map[ChunkCoord]*Chunk
	modCount uint64 // increases on any chunk add/remove
}

// New builds a world for cfg.Seed.
func New(cfg config.Config) *World {
	w := &World{
		cfg:    cfg,
		chunks: make(map[ChunkCoord]*Chunk),
	}
	w.rebuildGenerators(cfg.Seed)
	return w
}

// rebuildGenerators wires a fresh synthesizer, cache, classifier and builder
// for the given seed. The fresh cache is what guarantees no height from a
// previous seed survives a reseed.
func (w *World) rebuildGenerators(seed int64) {
	cfg := w.cfg
	cfg.Seed = seed
	w.cfg = cfg

	w.synth = terrain.NewSynthesizer(cfg)
	w.cache = terrain.NewHeightCache(w.synth.HeightAt, cfg)
	w.colors = terrain.NewClassifier(cfg)
	w.builder = meshing.NewBuilder(w.cache, w.colors, cfg)
}

// Seed returns the seed the world is currently generated from.
func (w *World) Seed() int64 {
	return w.cfg.Seed
}

// ChunkCoordAt returns the chunk containing world position (x, z).
func (w *World) ChunkCoordAt(x, z float64) ChunkCoord {
	size := w.cfg.World.ChunkSize
	return ChunkCoord{
		X: int(math.Floor(x / size)),
		Z: int(math.Floor(z / size)),
	}
}

// Update makes sure chunks around (x, z) exist, building at most BuildBudget
// missing ones this call. Chunks are scanned center-out in expanding square
// rings so the terrain under the camera always wins. Returns the number of
// chunks built.
func (w *World) Update(x, z float64) int {
	defer profiling.Track("world.Update")()

	center := w.ChunkCoordAt(x, z)
	radius := w.cfg.World.ViewDistance
	budget := w.cfg.World.BuildBudget

	built := 0
	for r := 0; r <= radius && built < budget; r++ {
		if r == 0 {
			built += w.buildIfMissing(center, budget-built)
			continue
		}
		x0, x1 := center.X-r, center.X+r
		z0, z1 := center.Z-r, center.Z+r

		for cx := x0; cx <= x1 && built < budget; cx++ {
			built += w.buildIfMissing(ChunkCoord{X: cx, Z: z0}, budget-built)
		}
		for cz := z0 + 1; cz <= z1-1 && built < budget; cz++ {
			built += w.buildIfMissing(ChunkCoord{X: x1, Z: cz}, budget-built)
		}
		for cx := x1; cx >= x0 && built < budget; cx-- {
			built += w.buildIfMissing(ChunkCoord{X: cx, Z: z1}, budget-built)
		}
		for cz := z1 - 1; cz >= z0+1 && built < budget; cz-- {
			built += w.buildIfMissing(ChunkCoord{X: x0, Z: cz}, budget-built)
		}
	}
	return built
}

func (w *World) buildIfMissing(coord ChunkCoord, budget int) int {
	if budget <= 0 || w.HasChunk(coord) {
		return 0
	}
	defer profiling.Track("world.BuildChunk")()

	mesh := w.builder.BuildChunk(coord.X, coord.Z)

	w.mu.Lock()
	if _, ok := w.chunks[coord]; ok {
		w.mu.Unlock()
		return 0
	}
	w.chunks[coord] = &Chunk{Coord: coord, Mesh: mesh}
	w.modCount++
	w.mu.Unlock()
	return 1
}

// EvictFarChunks drops chunks more than ViewDistance+1 rings from (x, z) and
// returns how many were removed. The one-ring slack keeps a chunk from
// thrashing in and out while the camera hovers on a boundary.
func (w *World) EvictFarChunks(x, z float64) int {
	defer profiling.Track("world.EvictFarChunks")()

	center := w.ChunkCoordAt(x, z)
	keep := w.cfg.World.ViewDistance + 1

	removed := 0
	w.mu.Lock()
	for coord := range w.chunks {
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx < -keep || dx > keep || dz < -keep || dz > keep {
			delete(w.chunks, coord)
			w.modCount++
			removed++
		}
	}
	w.mu.Unlock()
	return removed
}

// Regenerate throws away the whole world and restarts generation from a new
// seed: fresh noise fields, an empty height cache, no chunks. The next
// Update calls rebuild terrain around the camera.
func (w *World) Regenerate(seed int64) {
	w.mu.Lock()
	w.rebuildGenerators(seed)
	w.chunks = make(map[ChunkCoord]*Chunk)
	w.modCount++
	w.mu.Unlock()
}

// HasChunk reports whether a chunk is built without creating it.
func (w *World) HasChunk(coord ChunkCoord) bool {
	w.mu.RLock()
	_, ok := w.chunks[coord]
	w.mu.RUnlock()
	return ok
}

// ChunkCount returns the number of built chunks.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Chunks returns a snapshot slice of all built chunks for the renderer.
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// ModCount returns the chunk map modification count. The renderer compares
// it against its last synced value to decide when chunk buffers need
// re-uploading.
func (w *World) ModCount() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.modCount
}

// HeightAt answers the terrain height service query at (x, z), through the
// cache, so gameplay and meshing see one consistent surface.
func (w *World) HeightAt(x, z float64) float64 {
	return w.cache.HeightAt(x, z)
}

// SlopeAt answers the slope service query at (x, z).
func (w *World) SlopeAt(x, z float64) float64 {
	return w.cache.SlopeAt(x, z)
}

// CacheStats exposes height cache effectiveness for the HUD.
func (w *World) CacheStats() terrain.CacheStats {
	return w.cache.Stats()
}
