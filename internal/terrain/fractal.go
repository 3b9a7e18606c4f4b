package terrain

import "math"

// FractalNoise sums octaves of the sampler at geometrically increasing
// frequency and geometrically decreasing amplitude, normalized by the total
// amplitude so the result stays in roughly [-1, 1] regardless of octave
// count. octaves <= 0 yields 0 rather than a division by zero.
func FractalNoise(s *Sampler, x, z, baseFrequency float64, octaves int, persistence, lacunarity float64) float64 {
	if octaves <= 0 {
		return 0
	}

	freq := baseFrequency
	amp := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += s.At(x*freq, z*freq) * amp
		norm += amp
		amp *= persistence
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// RidgedNoise builds mountain-ridge shapes: each octave folds the noise with
// 1-abs(n), raises it to sharpness, and is weighted by the previous octave's
// signal so ridges stay continuous instead of breaking into independent
// random bumps. Output is normalized to roughly [0, 1].
//
// Sharpness controls peak character: 1.2 keeps ridgelines rounded; squaring
// (2.0) makes them needle-like. octaves <= 0 yields 0.
func RidgedNoise(s *Sampler, x, z, frequency float64, octaves int, sharpness float64) float64 {
	if octaves <= 0 {
		return 0
	}

	freq := frequency
	amp := 1.0
	weight := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		signal := 1.0 - math.Abs(s.At(x*freq, z*freq))
		signal = math.Pow(signal, sharpness)
		signal *= weight

		// The next octave only contributes where this one did.
		weight = signal
		if weight > 1 {
			weight = 1
		}

		sum += signal * amp
		norm += amp
		amp *= 0.5
		freq *= 2.0
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// lerp linearly interpolates between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smootherstep is the 6t^5 - 15t^4 + 10t^3 easing over [0, 1]; both its
// first and second derivatives vanish at the endpoints, which is what keeps
// band boundaries invisible.
func smootherstep(t float64) float64 {
	t = clamp01(t)
	return t * t * t * (t*(t*6-15) + 10)
}

// sigmoid01 is a logistic blend of t across a band centered on center with
// the given width: ~0 well below the band, ~1 well above, with a wide gentle
// middle. Preferred over cubic easing for terrain transitions because the
// middle stays gradual instead of pinching into a visible step.
func sigmoid01(t, center, width float64) float64 {
	if width <= 0 {
		// Degenerate band: fall back to a hard step at the center.
		if t < center {
			return 0
		}
		return 1
	}
	return 1.0 / (1.0 + math.Exp(-(t-center)*(10.0/width)))
}
