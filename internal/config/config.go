package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full load-time configuration. It is assembled once at startup
// (defaults, optionally overlaid with a YAML file) and passed by value into
// the terrain, world and viewer constructors; nothing mutates it afterwards.
type Config struct {
	// Seed drives every noise field. Changing it at runtime requires
	// world.Regenerate, which also clears the height cache.
	Seed int64 `yaml:"seed"`

	World  WorldConfig  `yaml:"world"`
	Noise  NoiseConfig  `yaml:"noise"`
	Color  ColorConfig  `yaml:"color"`
	Normal NormalConfig `yaml:"normals"`
	Cache  CacheConfig  `yaml:"cache"`
	Viewer ViewerConfig `yaml:"viewer"`
}

// WorldConfig describes chunk geometry and elevation bounds.
type WorldConfig struct {
	// ChunkSize is the world-space edge length of one chunk, in units.
	ChunkSize float64 `yaml:"chunk_size"`
	// TerrainResolution is the vertex count per chunk edge; a chunk mesh has
	// TerrainResolution^2 vertices. Minimum 2.
	TerrainResolution int `yaml:"terrain_resolution"`
	// MinHeight/MaxHeight bound the synthesized elevation. Routine terrain
	// stays well inside; only outliers are pulled back (see SoftLimitMargin).
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`
	// ViewDistance is the chunk radius kept built around the camera.
	ViewDistance int `yaml:"view_distance"`
	// BuildBudget caps chunk builds per frame so entering new terrain never
	// spikes a single frame. 1 is the intended steady state.
	BuildBudget int `yaml:"build_budget"`
	// SlopeSampleOffset is the half step, in world units, of the central
	// finite difference used for slope queries.
	SlopeSampleOffset float64 `yaml:"slope_sample_offset"`
	// HighElevation, in world units, is where "peak handling" starts: the
	// classifier's brightness floor and the normal pass's problem detection
	// both key off it.
	HighElevation float64 `yaml:"high_elevation"`
}

// NoiseConfig holds every tunable of the height synthesizer. The transition
// and gate parameters were retuned endlessly during visual iteration, so they
// are all first-class fields with documented ranges instead of inline
// constants.
type NoiseConfig struct {
	// Continent mask: low-frequency fractal shaping landmasses.
	ContinentFrequency float64 `yaml:"continent_frequency"`
	ContinentOctaves   int     `yaml:"continent_octaves"`
	Persistence        float64 `yaml:"persistence"` // (0,1); amplitude falloff per octave
	Lacunarity         float64 `yaml:"lacunarity"`  // >1; frequency growth per octave

	// Base elevation levels blended by the continent mask.
	ValleyBase  float64 `yaml:"valley_base"`  // baseline of valley floors
	PlainsLevel float64 `yaml:"plains_level"` // baseline of open plains

	// OceanCenter/OceanWidth place the sigmoid lifting terrain from MinHeight
	// up to ValleyBase at the low end of the mask.
	OceanCenter float64 `yaml:"ocean_center"` // mask units, [0,1]
	OceanWidth  float64 `yaml:"ocean_width"`  // mask units; wider = gentler shores
	// TransitionCenter/TransitionWidth place the valley-to-plains sigmoid.
	// Width must stay wide (>= ~0.2 of the mask range); narrow bands are the
	// direct cause of visible terrain steps.
	TransitionCenter float64 `yaml:"transition_center"`
	TransitionWidth  float64 `yaml:"transition_width"`

	// Mountains: ridged noise, clustered by a slow modulation field and gated
	// out of ocean/valley zones by the continent mask.
	MountainFrequency float64 `yaml:"mountain_frequency"`
	MountainOctaves   int     `yaml:"mountain_octaves"`
	MountainHeight    float64 `yaml:"mountain_height"`
	// RidgeSharpness is the exponent applied to the folded ridge signal.
	// Valid range [1.0, 2.0]. 1.2 keeps peaks rounded; 2.0 reproduces the
	// needle-peak look and is kept only as the upper clamp.
	RidgeSharpness    float64 `yaml:"ridge_sharpness"`
	ClusterFrequency  float64 `yaml:"cluster_frequency"`
	MountainGateStart float64 `yaml:"mountain_gate_start"` // mask value where mountains may rise
	MountainGateWidth float64 `yaml:"mountain_gate_width"`

	// High-frequency, low-amplitude surface roughness added everywhere.
	DetailFrequency float64 `yaml:"detail_frequency"`
	DetailOctaves   int     `yaml:"detail_octaves"`
	DetailAmplitude float64 `yaml:"detail_amplitude"`

	// SoftLimitMargin is how far inside [MinHeight, MaxHeight] the soft clamp
	// begins to bend outliers back. Routine heights never touch it.
	SoftLimitMargin float64 `yaml:"soft_limit_margin"`
}

// ColorConfig holds the biome classifier tunables.
type ColorConfig struct {
	// Shared micro-texture fields, sampled at the same coordinates for every
	// band so adjacent bands stay correlated across their boundary.
	TextureFrequency float64 `yaml:"texture_frequency"`
	TextureStrength  float64 `yaml:"texture_strength"` // [0, 0.5] brightness jitter

	// Vegetation density variation on the green bands.
	VegetationFrequency float64 `yaml:"vegetation_frequency"`
	VegetationStrength  float64 `yaml:"vegetation_strength"`

	// Rock exposure gate: slope (gradient magnitude) range over which bare
	// rock fades in, and the elevation above which exposure fades back out so
	// peaks do not darken.
	RockSlopeStart float64 `yaml:"rock_slope_start"`
	RockSlopeFull  float64 `yaml:"rock_slope_full"`
	RockFadeStart  float64 `yaml:"rock_fade_start"` // world units
	RockFadeEnd    float64 `yaml:"rock_fade_end"`   // world units

	// Snow cap: blended in over [SnowLine, SnowLine+SnowBlend].
	SnowLine  float64 `yaml:"snow_line"`  // world units
	SnowBlend float64 `yaml:"snow_blend"` // world units

	// PeakBrightnessFloor is a hard lower bound on every color channel above
	// WorldConfig.HighElevation. This is the fix for black patches on peaks;
	// it is an invariant, not a tuning suggestion.
	PeakBrightnessFloor float64 `yaml:"peak_brightness_floor"`
}

// NormalConfig holds the corrective smoothing tunables.
type NormalConfig struct {
	// UprightMin: a vertex above HighElevation whose normal's Y component is
	// below this is flagged for correction.
	UprightMin float64 `yaml:"upright_min"`
	// CorrectionCap bounds the blend toward the neighbor average and toward
	// straight up. Must stay well below 1.0 or corrected peaks go flat; the
	// intended value is 0.5.
	CorrectionCap float64 `yaml:"correction_cap"`
	// CorrectionRamp, in world units of elevation above HighElevation, is the
	// distance over which the blend factor climbs to the cap.
	CorrectionRamp float64 `yaml:"correction_ramp"`
}

// CacheConfig bounds the height cache. Resolution <= 0 or MaxEntries <= 0
// disables caching entirely (queries pass through to the synthesizer).
type CacheConfig struct {
	// Resolution is the cache cell edge in world units. Positions inside the
	// same cell share one height sample, so it must stay small relative to
	// the finest terrain feature worth rendering distinctly.
	Resolution float64 `yaml:"resolution"`
	MaxEntries int     `yaml:"max_entries"`
}

// ViewerConfig is consumed only by cmd/skycarpet.
type ViewerConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	FOV              float64 `yaml:"fov"`
	FPSLimit         int     `yaml:"fps_limit"` // 0 disables the limiter
	FlightSpeed      float64 `yaml:"flight_speed"`
	BoostMultiplier  float64 `yaml:"boost_multiplier"`
	MinClearance     float64 `yaml:"min_clearance"` // minimum altitude above terrain
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	FontPath         string  `yaml:"font_path"` // HUD is disabled if missing
}

// Default returns the configuration the game ships with. All numeric band
// thresholds here are validated by the smoothness and brightness-floor tests
// rather than being handed down as truth.
func Default() Config {
	return Config{
		Seed: 1337,
		World: WorldConfig{
			ChunkSize:         1024,
			TerrainResolution: 64,
			MinHeight:         -60,
			MaxHeight:         150,
			ViewDistance:      4,
			BuildBudget:       1,
			SlopeSampleOffset: 2.0,
			HighElevation:     110,
		},
		Noise: NoiseConfig{
			ContinentFrequency: 1.0 / 4200.0,
			ContinentOctaves:   4,
			Persistence:        0.5,
			Lacunarity:         2.0,

			ValleyBase:  -16,
			PlainsLevel: 8,

			OceanCenter: 0.08,
			OceanWidth:  0.10,

			TransitionCenter: 0.24,
			TransitionWidth:  0.28,

			MountainFrequency: 1.0 / 1400.0,
			MountainOctaves:   5,
			MountainHeight:    120,
			RidgeSharpness:    1.2,
			ClusterFrequency:  1.0 / 5200.0,
			MountainGateStart: 0.42,
			MountainGateWidth: 0.18,

			DetailFrequency: 1.0 / 48.0,
			DetailOctaves:   2,
			DetailAmplitude: 1.6,

			SoftLimitMargin: 12,
		},
		Color: ColorConfig{
			TextureFrequency: 1.0 / 260.0,
			TextureStrength:  0.14,

			VegetationFrequency: 1.0 / 90.0,
			VegetationStrength:  0.10,

			RockSlopeStart: 0.55,
			RockSlopeFull:  1.4,
			RockFadeStart:  105,
			RockFadeEnd:    125,

			SnowLine:  95,
			SnowBlend: 18,

			PeakBrightnessFloor: 0.30,
		},
		Normal: NormalConfig{
			UprightMin:     0.35,
			CorrectionCap:  0.5,
			CorrectionRamp: 30,
		},
		Cache: CacheConfig{
			Resolution: 2.0,
			MaxEntries: 250000,
		},
		Viewer: ViewerConfig{
			Width:            1280,
			Height:           800,
			FOV:              60,
			FPSLimit:         120,
			FlightSpeed:      120,
			BoostMultiplier:  4,
			MinClearance:     6,
			MouseSensitivity: 0.1,
			FontPath:         "assets/fonts/OpenSans-Regular.ttf",
		},
	}
}

// Load reads a YAML file and overlays it onto the defaults, so a config file
// only needs the fields it wants to change. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural invariants and clamps tunables into their
// documented ranges. Tunables are clamped rather than rejected; only values
// that make the pipeline undefined are errors.
func (c *Config) Validate() error {
	if c.World.ChunkSize <= 0 {
		return fmt.Errorf("world.chunk_size must be positive, got %v", c.World.ChunkSize)
	}
	if c.World.TerrainResolution < 2 {
		return fmt.Errorf("world.terrain_resolution must be at least 2, got %d", c.World.TerrainResolution)
	}
	if c.World.MaxHeight <= c.World.MinHeight {
		return fmt.Errorf("world.max_height (%v) must exceed world.min_height (%v)",
			c.World.MaxHeight, c.World.MinHeight)
	}
	if c.World.ViewDistance < 1 {
		c.World.ViewDistance = 1
	}
	if c.World.BuildBudget < 1 {
		c.World.BuildBudget = 1
	}
	if c.World.SlopeSampleOffset <= 0 {
		c.World.SlopeSampleOffset = 2.0
	}

	c.Noise.RidgeSharpness = clampF(c.Noise.RidgeSharpness, 1.0, 2.0)
	c.Noise.Persistence = clampF(c.Noise.Persistence, 0.05, 0.95)
	if c.Noise.Lacunarity < 1.0 {
		c.Noise.Lacunarity = 2.0
	}
	// A narrow transition band is the step-artifact failure mode; hold the
	// documented minimum width.
	if c.Noise.TransitionWidth < 0.2 {
		c.Noise.TransitionWidth = 0.2
	}
	if c.Noise.SoftLimitMargin <= 0 {
		c.Noise.SoftLimitMargin = 1
	}

	c.Color.PeakBrightnessFloor = clampF(c.Color.PeakBrightnessFloor, 0, 1)
	if c.Color.RockSlopeFull <= c.Color.RockSlopeStart {
		c.Color.RockSlopeFull = c.Color.RockSlopeStart + 0.5
	}
	if c.Color.RockFadeEnd <= c.Color.RockFadeStart {
		c.Color.RockFadeEnd = c.Color.RockFadeStart + 1
	}
	if c.Color.SnowBlend <= 0 {
		c.Color.SnowBlend = 1
	}

	c.Normal.UprightMin = clampF(c.Normal.UprightMin, 0, 1)
	c.Normal.CorrectionCap = clampF(c.Normal.CorrectionCap, 0, 0.9)
	if c.Normal.CorrectionRamp <= 0 {
		c.Normal.CorrectionRamp = 1
	}

	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		c.Viewer.Width, c.Viewer.Height = 1280, 800
	}
	c.Viewer.FOV = clampF(c.Viewer.FOV, 30, 110)
	if c.Viewer.MouseSensitivity <= 0 {
		c.Viewer.MouseSensitivity = 0.1
	}
	return nil
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
