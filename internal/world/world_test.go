package world

import (
	"testing"

	"skycarpet/internal/config"
)

// testConfig keeps chunks cheap so streaming tests stay fast.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.World.ChunkSize = 64
	cfg.World.TerrainResolution = 8
	cfg.World.ViewDistance = 2
	cfg.World.BuildBudget = 3
	return cfg
}

// fillAround drives Update until the area around (x, z) is fully built.
func fillAround(t *testing.T, w *World, x, z float64) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if w.Update(x, z) == 0 {
			return
		}
	}
	t.Fatalf("world never finished building around (%f, %f)", x, z)
}

func TestChunkCoordAt(t *testing.T) {
	w := New(testConfig())

	cases := []struct {
		x, z float64
		want ChunkCoord
	}{
		{0, 0, ChunkCoord{0, 0}},
		{63.9, 63.9, ChunkCoord{0, 0}},
		{64, 0, ChunkCoord{1, 0}},
		{-0.5, 64, ChunkCoord{-1, 1}},
		{-64, -0.1, ChunkCoord{-1, -1}},
	}
	for _, c := range cases {
		if got := w.ChunkCoordAt(c.x, c.z); got != c.want {
			t.Errorf("ChunkCoordAt(%f, %f) = %+v, want %+v", c.x, c.z, got, c.want)
		}
	}
}

// TestUpdateRespectsBuildBudget verifies no single Update call builds more
// than BuildBudget chunks, and that the full view area eventually converges.
func TestUpdateRespectsBuildBudget(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)

	side := 2*cfg.World.ViewDistance + 1
	wantTotal := side * side

	total := 0
	for i := 0; i < 1000; i++ {
		built := w.Update(0, 0)
		if built > cfg.World.BuildBudget {
			t.Fatalf("Update built %d chunks, budget is %d", built, cfg.World.BuildBudget)
		}
		if built == 0 {
			break
		}
		total += built
	}

	if total != wantTotal {
		t.Errorf("built %d chunks around origin, want %d", total, wantTotal)
	}
	if got := w.ChunkCount(); got != wantTotal {
		t.Errorf("ChunkCount = %d, want %d", got, wantTotal)
	}
	if extra := w.Update(0, 0); extra != 0 {
		t.Errorf("Update on a converged area still built %d chunks", extra)
	}
}

// TestUpdateBuildsCenterFirst verifies the camera's own chunk is the first
// one built.
func TestUpdateBuildsCenterFirst(t *testing.T) {
	cfg := testConfig()
	cfg.World.BuildBudget = 1
	w := New(cfg)

	if built := w.Update(200, -100); built != 1 {
		t.Fatalf("first Update built %d chunks, want 1", built)
	}
	center := w.ChunkCoordAt(200, -100)
	if !w.HasChunk(center) {
		t.Errorf("center chunk %+v missing after first Update", center)
	}
}

func TestEvictFarChunks(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	fillAround(t, w, 0, 0)
	built := w.ChunkCount()

	// Still close: nothing to evict.
	if removed := w.EvictFarChunks(0, 0); removed != 0 {
		t.Errorf("evict at the same position removed %d chunks", removed)
	}

	// Teleport far away: everything is out of range.
	far := 100 * cfg.World.ChunkSize
	before := w.ModCount()
	if removed := w.EvictFarChunks(far, far); removed != built {
		t.Errorf("evict after teleport removed %d chunks, want %d", removed, built)
	}
	if got := w.ChunkCount(); got != 0 {
		t.Errorf("%d chunks left after full eviction", got)
	}
	if w.ModCount() == before {
		t.Errorf("ModCount unchanged by eviction")
	}
}

// TestEvictKeepsBoundaryRing verifies the one-ring hysteresis: chunks one
// step beyond the view distance survive, so hovering on a chunk edge does
// not rebuild the same chunk every other frame.
func TestEvictKeepsBoundaryRing(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	fillAround(t, w, 0, 0)

	// Move one chunk east; the chunks now ViewDistance+1 behind must stay.
	oneChunk := cfg.World.ChunkSize
	if removed := w.EvictFarChunks(oneChunk, 0); removed != 0 {
		t.Errorf("moving one chunk evicted %d chunks despite hysteresis", removed)
	}
}

func TestRegenerate(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	fillAround(t, w, 0, 0)

	probes := [][2]float64{{123, 456}, {-900, 77}, {5000, -5000}}
	var before [3]float64
	for i, p := range probes {
		before[i] = w.HeightAt(p[0], p[1])
	}
	if w.CacheStats().Size == 0 {
		t.Fatalf("expected a warm cache before Regenerate")
	}

	w.Regenerate(999)

	if got := w.Seed(); got != 999 {
		t.Errorf("Seed = %d after Regenerate, want 999", got)
	}
	if got := w.ChunkCount(); got != 0 {
		t.Errorf("%d chunks survived Regenerate", got)
	}
	if s := w.CacheStats(); s.Size != 0 || s.Hits != 0 || s.Misses != 0 {
		t.Errorf("cache not reset by Regenerate: %+v", s)
	}

	same := 0
	for i, p := range probes {
		if w.HeightAt(p[0], p[1]) == before[i] {
			same++
		}
	}
	if same == len(probes) {
		t.Errorf("terrain identical at all probes after reseeding; new seed not applied")
	}
}

// TestHeightServiceIsQuantized verifies the gameplay-facing height query
// runs through the cache: two positions in the same cache cell return the
// identical height and register a hit.
func TestHeightServiceIsQuantized(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)

	h1 := w.HeightAt(100.2, 40.2)
	hits := w.CacheStats().Hits
	h2 := w.HeightAt(100.9, 40.9)
	if h1 != h2 {
		t.Errorf("heights %v and %v differ inside one cache cell", h1, h2)
	}
	if got := w.CacheStats().Hits; got != hits+1 {
		t.Errorf("second query did not hit the cache: hits %d -> %d", hits, got)
	}
}

// TestChunksSnapshot verifies the renderer snapshot contains every built
// chunk with its mesh attached.
func TestChunksSnapshot(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	fillAround(t, w, 0, 0)

	chunks := w.Chunks()
	if len(chunks) != w.ChunkCount() {
		t.Fatalf("snapshot has %d chunks, store has %d", len(chunks), w.ChunkCount())
	}
	res := cfg.World.TerrainResolution
	for _, c := range chunks {
		if c.Mesh == nil {
			t.Fatalf("chunk %+v has no mesh", c.Coord)
		}
		if got, want := len(c.Mesh.Vertices), res*res; got != want {
			t.Errorf("chunk %+v mesh has %d vertices, want %d", c.Coord, got, want)
		}
	}
}
