package terrain

import (
	"math"
	"sync"

	"skycarpet/internal/config"
)

// HeightFunc is the underlying field a HeightCache memoizes.
type HeightFunc func(x, z float64) float64

// cellKey is the integer cell index (floor(x/R), floor(z/R)) for cache
// resolution R. Integer indices give exact map-key equality; the cached value
// is still computed at the cell's quantized world origin.
type cellKey struct {
	X, Z int64
}

// CacheStats is a read-only snapshot of cache effectiveness.
type CacheStats struct {
	Size    int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// HeightCache memoizes height queries on a quantized grid. Every world
// position inside one resolution-sized cell returns the identical height, the
// value at the cell's origin. The coarsening is acceptable because the
// resolution is small against the finest terrain feature wavelength.
//
// The cache is the only mutable shared state in the terrain core, so it
// carries its own mutex; everything it wraps is pure. Under concurrent misses
// the same cell may be computed twice, which costs a redundant evaluation and
// nothing else since values are immutable.
type HeightCache struct {
	height HeightFunc

	resolution  float64
	maxEntries  int
	slopeOffset float64

	mu      sync.Mutex
	entries map[cellKey]float64
	order   []cellKey // insertion order, oldest first
	hits    uint64
	misses  uint64
}

// NewHeightCache wraps height with a quantized memo layer configured by
// cfg.Cache. A non-positive resolution or entry limit disables caching and
// every query passes straight through.
func NewHeightCache(height HeightFunc, cfg config.Config) *HeightCache {
	return &HeightCache{
		height:      height,
		resolution:  cfg.Cache.Resolution,
		maxEntries:  cfg.Cache.MaxEntries,
		slopeOffset: cfg.World.SlopeSampleOffset,
		entries:     make(map[cellKey]float64),
	}
}

func (c *HeightCache) disabled() bool {
	return c.resolution <= 0 || c.maxEntries <= 0
}

func (c *HeightCache) keyFor(x, z float64) cellKey {
	return cellKey{
		X: int64(math.Floor(x / c.resolution)),
		Z: int64(math.Floor(z / c.resolution)),
	}
}

// Origin returns the quantized world coordinates a query at (x, z) resolves
// to. Exposed so callers can reason about (and test) the coarsening.
func (c *HeightCache) Origin(x, z float64) (float64, float64) {
	if c.disabled() {
		return x, z
	}
	key := c.keyFor(x, z)
	return float64(key.X) * c.resolution, float64(key.Z) * c.resolution
}

// HeightAt returns the cached height for the cell containing (x, z),
// computing and storing it on first touch.
func (c *HeightCache) HeightAt(x, z float64) float64 {
	if c.disabled() {
		return c.height(x, z)
	}
	key := c.keyFor(x, z)

	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v
	}
	c.misses++
	c.mu.Unlock()

	// Compute outside the lock; the field is pure, so a racing miss on the
	// same cell just recomputes the identical value.
	v := c.height(float64(key.X)*c.resolution, float64(key.Z)*c.resolution)

	c.mu.Lock()
	if existing, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return existing
	}
	if len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	c.mu.Unlock()
	return v
}

// evictOldestLocked drops the oldest ~10% of entries by insertion order.
// Bounded memory is the goal, not LRU precision.
func (c *HeightCache) evictOldestLocked() {
	n := c.maxEntries / 10
	if n < 1 {
		n = 1
	}
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, key := range c.order[:n] {
		delete(c.entries, key)
	}
	rest := make([]cellKey, len(c.order)-n)
	copy(rest, c.order[n:])
	c.order = rest
}

// SlopeAt returns the gradient magnitude at (x, z) sampled through the cache,
// so the four taps of the finite difference land in (and warm) nearby cells.
func (c *HeightCache) SlopeAt(x, z float64) float64 {
	return Slope(c.HeightAt, x, z, c.slopeOffset)
}

// Clear empties the cache and resets the counters. Must be called whenever
// the world seed changes; stale heights from another seed are silent
// corruption, not an error the cache can detect itself.
func (c *HeightCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[cellKey]float64)
	c.order = nil
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
}

// Stats returns a snapshot of size and hit/miss counters.
func (c *HeightCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := CacheStats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
