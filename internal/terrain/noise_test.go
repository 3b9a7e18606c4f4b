package terrain

import (
	"math"
	"math/rand"
	"testing"
)

// TestSamplerDeterministic verifies the same seed and coordinates always
// produce the same value, including across independently built samplers.
func TestSamplerDeterministic(t *testing.T) {
	a := NewSampler(42)
	b := NewSampler(42)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		x := rng.Float64()*100000 - 50000
		z := rng.Float64()*100000 - 50000

		v1 := a.At(x, z)
		v2 := a.At(x, z)
		v3 := b.At(x, z)
		if v1 != v2 {
			t.Fatalf("sampler not deterministic at (%f, %f): %f != %f", x, z, v1, v2)
		}
		if v1 != v3 {
			t.Fatalf("samplers with equal seeds disagree at (%f, %f): %f != %f", x, z, v1, v3)
		}
	}
}

// TestSamplerRange verifies output stays in [-1, 1] across the playable
// coordinate range, including far from the origin.
func TestSamplerRange(t *testing.T) {
	s := NewSampler(7)
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 2000; i++ {
		x := rng.Float64()*2e6 - 1e6
		z := rng.Float64()*2e6 - 1e6
		v := s.At(x, z)
		if v < -1 || v > 1 || math.IsNaN(v) {
			t.Errorf("At(%f, %f) = %f, expected in [-1, 1]", x, z, v)
		}
	}
}

// TestSamplerContinuous verifies tiny input steps produce tiny output steps.
// A discontinuity here would surface as a visible crease in the terrain.
func TestSamplerContinuous(t *testing.T) {
	s := NewSampler(99)
	rng := rand.New(rand.NewSource(3))

	const step = 0.001
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*20000 - 10000
		z := rng.Float64()*20000 - 10000

		v := s.At(x, z)
		dx := math.Abs(s.At(x+step, z) - v)
		dz := math.Abs(s.At(x, z+step) - v)
		if dx > 0.05 || dz > 0.05 {
			t.Errorf("discontinuity at (%f, %f): dx=%f dz=%f for step %f", x, z, dx, dz, step)
		}
	}
}

// TestSamplerSeedsDiverge verifies different seeds produce different fields.
func TestSamplerSeedsDiverge(t *testing.T) {
	a := NewSampler(1)
	b := NewSampler(2)

	differ := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 13.7
		z := float64(i) * 7.3
		if a.At(x, z) != b.At(x, z) {
			differ++
		}
	}
	if differ < 90 {
		t.Errorf("seeds 1 and 2 agree at %d/100 points; fields should be independent", 100-differ)
	}
}

// TestSamplerDerive verifies derived samplers are reproducible and offset
// from the base seed.
func TestSamplerDerive(t *testing.T) {
	base := NewSampler(1000)

	d1 := base.Derive(3)
	d2 := base.Derive(3)
	if d1.Seed() != 1003 {
		t.Errorf("Derive(3) from seed 1000: got seed %d, want 1003", d1.Seed())
	}
	if d1.At(12.5, -8.25) != d2.At(12.5, -8.25) {
		t.Errorf("equal derived samplers disagree")
	}
	if base.At(12.5, -8.25) == d1.At(12.5, -8.25) && base.At(77, 31) == d1.At(77, 31) {
		t.Errorf("derived sampler tracks the base field; expected an independent field")
	}
}
