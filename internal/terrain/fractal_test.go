package terrain

import (
	"math"
	"math/rand"
	"testing"
)

// TestFractalNoiseDegenerateOctaves verifies octave counts <= 0 yield 0
// instead of dividing by a zero amplitude sum.
func TestFractalNoiseDegenerateOctaves(t *testing.T) {
	s := NewSampler(42)
	for _, octaves := range []int{0, -1, -100} {
		if v := FractalNoise(s, 10, 20, 0.01, octaves, 0.5, 2.0); v != 0 {
			t.Errorf("FractalNoise with %d octaves = %f, want 0", octaves, v)
		}
		if v := RidgedNoise(s, 10, 20, 0.01, octaves, 1.2); v != 0 {
			t.Errorf("RidgedNoise with %d octaves = %f, want 0", octaves, v)
		}
	}
}

// TestFractalNoiseSingleOctave verifies one octave reduces to a plain sample
// at the base frequency, which pins the normalization down exactly.
func TestFractalNoiseSingleOctave(t *testing.T) {
	s := NewSampler(5)
	x, z := 123.4, -567.8
	freq := 0.003

	got := FractalNoise(s, x, z, freq, 1, 0.5, 2.0)
	want := s.At(x*freq, z*freq)
	if got != want {
		t.Errorf("single octave FractalNoise = %f, want raw sample %f", got, want)
	}
}

// TestFractalNoiseNormalized verifies multi-octave sums stay inside [-1, 1]
// regardless of octave count.
func TestFractalNoiseNormalized(t *testing.T) {
	s := NewSampler(8)
	rng := rand.New(rand.NewSource(4))

	for _, octaves := range []int{2, 4, 8} {
		for i := 0; i < 500; i++ {
			x := rng.Float64()*100000 - 50000
			z := rng.Float64()*100000 - 50000
			v := FractalNoise(s, x, z, 1.0/1000.0, octaves, 0.5, 2.0)
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Errorf("FractalNoise(%f, %f, octaves=%d) = %f, expected in [-1, 1]", x, z, octaves, v)
			}
		}
	}
}

// TestRidgedNoiseRange verifies the folded, weighted sum stays in [0, 1].
func TestRidgedNoiseRange(t *testing.T) {
	s := NewSampler(11)
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 1500; i++ {
		x := rng.Float64()*100000 - 50000
		z := rng.Float64()*100000 - 50000
		v := RidgedNoise(s, x, z, 1.0/1400.0, 5, 1.2)
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("RidgedNoise(%f, %f) = %f, expected in [0, 1]", x, z, v)
		}
	}
}

// TestRidgedNoiseSharpness verifies a higher exponent never raises the
// signal: sharpening thins ridges, it does not add elevation.
func TestRidgedNoiseSharpness(t *testing.T) {
	s := NewSampler(13)
	rng := rand.New(rand.NewSource(6))

	for i := 0; i < 500; i++ {
		x := rng.Float64()*50000 - 25000
		z := rng.Float64()*50000 - 25000
		soft := RidgedNoise(s, x, z, 1.0/1400.0, 5, 1.2)
		sharp := RidgedNoise(s, x, z, 1.0/1400.0, 5, 2.0)
		if sharp > soft {
			t.Errorf("sharpness 2.0 raised ridge value at (%f, %f): %f > %f", x, z, sharp, soft)
		}
	}
}

// TestSmootherstep pins the easing curve's endpoints, clamping and midpoint.
func TestSmootherstep(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, c := range cases {
		if got := smootherstep(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("smootherstep(%f) = %f, want %f", c.in, got, c.want)
		}
	}

	prev := smootherstep(0)
	for i := 1; i <= 100; i++ {
		v := smootherstep(float64(i) / 100)
		if v < prev {
			t.Fatalf("smootherstep not monotone at t=%f: %f < %f", float64(i)/100, v, prev)
		}
		prev = v
	}
}

// TestSigmoid01 verifies the logistic blend hits 0.5 at the center, saturates
// outside the band, stays monotone, and degrades to a hard step at width 0.
func TestSigmoid01(t *testing.T) {
	center, width := 0.24, 0.28

	if got := sigmoid01(center, center, width); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("sigmoid01 at center = %f, want 0.5", got)
	}
	if got := sigmoid01(center-3*width, center, width); got > 0.01 {
		t.Errorf("sigmoid01 far below band = %f, want ~0", got)
	}
	if got := sigmoid01(center+3*width, center, width); got < 0.99 {
		t.Errorf("sigmoid01 far above band = %f, want ~1", got)
	}

	prev := sigmoid01(-1, center, width)
	for i := 0; i <= 200; i++ {
		tt := -1 + float64(i)/100
		v := sigmoid01(tt, center, width)
		if v < prev {
			t.Fatalf("sigmoid01 not monotone at t=%f", tt)
		}
		prev = v
	}

	if got := sigmoid01(center-0.001, center, 0); got != 0 {
		t.Errorf("zero-width sigmoid below center = %f, want 0", got)
	}
	if got := sigmoid01(center+0.001, center, 0); got != 1 {
		t.Errorf("zero-width sigmoid above center = %f, want 1", got)
	}
}
