package terrain

import (
	"github.com/ojrac/opensimplex-go"
)

// Sampler is the seeded 2D noise primitive everything else is built on.
// At returns values in approximately [-1, 1], is continuous in both inputs,
// and is a pure function of (x, z, seed): the same coordinates always give
// the same value, which is what makes chunk seams line up for free.
//
// Simplex noise stays well-conditioned across the whole playable range
// (coordinates in the tens of thousands of units), so no domain wrapping is
// needed.
type Sampler struct {
	noise opensimplex.Noise
	seed  int64
}

// NewSampler returns a sampler for the given seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{noise: opensimplex.New(seed), seed: seed}
}

// Derive returns an independent sampler at a fixed offset from this
// sampler's seed. The synthesizer gives each field (continent, mountains,
// cluster, detail) its own derived sampler so the fields stay uncorrelated
// while remaining a function of the one world seed.
func (s *Sampler) Derive(offset int64) *Sampler {
	return NewSampler(s.seed + offset)
}

// Seed returns the seed this sampler was built from.
func (s *Sampler) Seed() int64 {
	return s.seed
}

// At samples the noise field at (x, z).
func (s *Sampler) At(x, z float64) float64 {
	return s.noise.Eval2(x, z)
}
