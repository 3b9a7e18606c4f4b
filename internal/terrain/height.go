package terrain

import (
	"math"

	"skycarpet/internal/config"
)

// Seed offsets of the synthesizer's independent noise fields. Each field gets
// its own generator so shapes stay uncorrelated while the whole world remains
// a function of one seed.
const (
	offsetContinent = 0
	offsetMountain  = 1
	offsetCluster   = 2
	offsetDetail    = 3
)

// clusterOctaves shapes the mountain-range clustering field; it is a slow
// modulation layer, so a fixed shallow octave count is enough.
const clusterOctaves = 3

// Synthesizer produces the terrain height field. It is a pure function of
// world coordinates and the seed it was built with: no internal state changes
// after construction, so the same (x, z) always yields the same height no
// matter which chunk, thread, or frame asks.
type Synthesizer struct {
	continent *Sampler
	mountain  *Sampler
	cluster   *Sampler
	detail    *Sampler

	noise                config.NoiseConfig
	minHeight, maxHeight float64
	slopeOffset          float64
}

// NewSynthesizer builds the height field for cfg.Seed.
func NewSynthesizer(cfg config.Config) *Synthesizer {
	base := NewSampler(cfg.Seed)
	return &Synthesizer{
		continent:   base.Derive(offsetContinent),
		mountain:    base.Derive(offsetMountain),
		cluster:     base.Derive(offsetCluster),
		detail:      base.Derive(offsetDetail),
		noise:       cfg.Noise,
		minHeight:   cfg.World.MinHeight,
		maxHeight:   cfg.World.MaxHeight,
		slopeOffset: cfg.World.SlopeSampleOffset,
	}
}

// ContinentMask returns the large-scale landmass shape in [0, 1]: low values
// are ocean/valley basins, high values solid land. Exposed for tests and the
// map overlay.
func (s *Synthesizer) ContinentMask(x, z float64) float64 {
	n := s.noise
	m := FractalNoise(s.continent, x, z, n.ContinentFrequency, n.ContinentOctaves, n.Persistence, n.Lacunarity)
	return clamp01(0.5 + 0.5*m)
}

// HeightAt returns the terrain height at world position (x, z).
//
// The field is layered: a base elevation from the continent mask (valley
// floors rising to plains through wide sigmoid bands), ridged mountain noise
// clustered by a slow modulation field and gated out of basins, and fine
// detail roughness on top. The result is soft-limited into the configured
// bounds and guarded so a degenerate input can never leak NaN into geometry.
func (s *Synthesizer) HeightAt(x, z float64) float64 {
	n := s.noise
	mask := s.ContinentMask(x, z)
	base := s.baseElevation(mask)

	// Mountains: ridged noise scaled by height, clustered so ranges appear in
	// groups rather than everywhere, and faded out below the gate so basins
	// stay flat.
	ridge := RidgedNoise(s.mountain, x, z, n.MountainFrequency, n.MountainOctaves, n.RidgeSharpness)
	cluster := clamp01(0.5 + 0.5*FractalNoise(s.cluster, x, z, n.ClusterFrequency, clusterOctaves, n.Persistence, n.Lacunarity))
	gate := smootherstep((mask - n.MountainGateStart) / n.MountainGateWidth)
	h := base + ridge*n.MountainHeight*cluster*gate

	// Surface micro-roughness, applied uniformly.
	h += FractalNoise(s.detail, x, z, n.DetailFrequency, n.DetailOctaves, n.Persistence, n.Lacunarity) * n.DetailAmplitude

	h = softLimit(h, s.minHeight, s.maxHeight, n.SoftLimitMargin)

	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}

// baseElevation maps the continent mask to the pre-mountain ground level:
// two stacked logistic blends, the first lifting the deep floor up to the
// valley baseline at the shore band, the second carrying valleys up to the
// plains over a deliberately wide band. Narrow bands here read as terraced
// steps from the air.
func (s *Synthesizer) baseElevation(mask float64) float64 {
	n := s.noise
	base := s.minHeight
	base += (n.ValleyBase - s.minHeight) * sigmoid01(mask, n.OceanCenter, n.OceanWidth)
	base += (n.PlainsLevel - n.ValleyBase) * sigmoid01(mask, n.TransitionCenter, n.TransitionWidth)
	return base
}

// SlopeAt returns the gradient magnitude of the height field at (x, z),
// sampled by central finite differences at the configured offset.
func (s *Synthesizer) SlopeAt(x, z float64) float64 {
	return Slope(s.HeightAt, x, z, s.slopeOffset)
}

// Slope computes the gradient magnitude of an arbitrary height function via
// central differences at ±offset on both axes. Shared by the synthesizer and
// the cache so both expose the same slope semantics.
func Slope(height func(x, z float64) float64, x, z, offset float64) float64 {
	if offset <= 0 {
		offset = 1
	}
	dx := (height(x+offset, z) - height(x-offset, z)) / (2 * offset)
	dz := (height(x, z+offset) - height(x, z-offset)) / (2 * offset)
	g := math.Sqrt(dx*dx + dz*dz)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0
	}
	return g
}

// softLimit leaves h untouched inside [lo+margin, hi-margin] and compresses
// anything beyond with a tanh tail that asymptotes at the hard bounds, so
// outliers are pulled back without flat-topping routine terrain.
func softLimit(h, lo, hi, margin float64) float64 {
	if margin <= 0 {
		return math.Min(math.Max(h, lo), hi)
	}
	if upper := hi - margin; h > upper {
		h = upper + margin*math.Tanh((h-upper)/margin)
	}
	if lower := lo + margin; h < lower {
		h = lower - margin*math.Tanh((lower-h)/margin)
	}
	return h
}
