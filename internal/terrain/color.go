package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
)

// Seed offsets for the classifier's perlin fields, distinct from the
// synthesizer offsets so color noise never correlates with height noise.
const (
	offsetTextureCoarse = 7
	offsetTextureFine   = 11
	offsetVegetation    = 13
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

type rgb [3]float64

// bandStop is one entry of the ordered color table. upTo is the band's upper
// height bound; blend is the half-width of the smootherstep gradient into the
// band above it.
type bandStop struct {
	name  string
	upTo  float64
	blend float64
	color rgb
}

// Material endpoints. Band placement is derived from the height model so the
// palette tracks the terrain when valley or snow levels are retuned.
var (
	colorSeabed   = rgb{0.36, 0.33, 0.24}
	colorSand     = rgb{0.76, 0.70, 0.50}
	colorScrub    = rgb{0.58, 0.56, 0.36}
	colorDryGrass = rgb{0.46, 0.58, 0.30}
	colorPlains   = rgb{0.33, 0.52, 0.25}
	colorForest   = rgb{0.22, 0.40, 0.20}
	colorHighland = rgb{0.42, 0.40, 0.32}
	colorRock     = rgb{0.48, 0.46, 0.44}
	colorSnow     = rgb{0.92, 0.93, 0.96}
)

// Classifier maps (position, height, slope) to a vertex color. All texture
// fields are sampled at the same world coordinates for every band, so the
// micro-variation stays correlated across band boundaries instead of visibly
// switching character at each height threshold.
type Classifier struct {
	bands []bandStop

	texCoarse *perlin.Perlin
	texFine   *perlin.Perlin
	veg       *perlin.Perlin

	color         config.ColorConfig
	highElevation float64

	// vegetation gate, from the duned shore up into the forest band
	vegLow  float64
	vegHigh float64
}

// NewClassifier builds the band table and noise fields for one seed.
func NewClassifier(cfg config.Config) *Classifier {
	valley := cfg.Noise.ValleyBase
	plains := cfg.Noise.PlainsLevel
	snow := cfg.Color.SnowLine

	bands := []bandStop{
		{name: "seabed", upTo: valley, blend: 4, color: colorSeabed},
		{name: "sand", upTo: 0, blend: 2.5, color: colorSand},
		{name: "scrub", upTo: plains * 0.5, blend: 3, color: colorScrub},
		{name: "dry-grass", upTo: plains + 6, blend: 4, color: colorDryGrass},
		{name: "plains", upTo: 30, blend: 6, color: colorPlains},
		{name: "forest", upTo: 55, blend: 8, color: colorForest},
		{name: "highland", upTo: 80, blend: 8, color: colorHighland},
		{name: "rock", upTo: snow, blend: 6, color: colorRock},
		{name: "snow", upTo: math.Inf(1), color: colorSnow},
	}

	return &Classifier{
		bands:         bands,
		texCoarse:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed+offsetTextureCoarse),
		texFine:       perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed+offsetTextureFine),
		veg:           perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed+offsetVegetation),
		color:         cfg.Color,
		highElevation: cfg.World.HighElevation,
		vegLow:        plains * 0.25,
		vegHigh:       60,
	}
}

// bandColor walks the stop table bottom-up, blending across each boundary
// with a smootherstep gradient. Height is the only input, so equal heights
// always land on the same base color.
func (c *Classifier) bandColor(h float64) rgb {
	col := c.bands[0].color
	for i := 0; i < len(c.bands)-1; i++ {
		stop := c.bands[i]
		if stop.blend <= 0 {
			if h >= stop.upTo {
				col = c.bands[i+1].color
			}
			continue
		}
		t := smootherstep((h - (stop.upTo - stop.blend)) / (2 * stop.blend))
		if t <= 0 {
			break
		}
		col = mixRGB(col, c.bands[i+1].color, t)
	}
	return col
}

// ColorAt classifies one vertex. Height and slope are taken as inputs rather
// than re-derived so the caller can feed the exact values the mesh was built
// from.
func (c *Classifier) ColorAt(x, z, height, slope float64) mgl32.Vec3 {
	if math.IsNaN(height) || math.IsInf(height, 0) {
		height = 0
	}
	if math.IsNaN(slope) || math.IsInf(slope, 0) || slope < 0 {
		slope = 0
	}

	col := c.bandColor(height)

	// Steep faces read as exposed rock. The gate fades out again above
	// RockFadeStart so summits keep their snow instead of turning grey.
	cc := c.color
	rockT := smootherstep((slope - cc.RockSlopeStart) / (cc.RockSlopeFull - cc.RockSlopeStart))
	rockT *= 1 - smootherstep((height-cc.RockFadeStart)/(cc.RockFadeEnd-cc.RockFadeStart))
	if rockT > 0 {
		col = mixRGB(col, colorRock, rockT)
	}

	// Snow cover blends in over SnowBlend units above the snow line.
	if cc.SnowBlend > 0 {
		if snowT := smootherstep((height - cc.SnowLine) / cc.SnowBlend); snowT > 0 {
			col = mixRGB(col, colorSnow, snowT)
		}
	}

	// Shared micro-texture: one coarse and one fine field, blended 70/30 and
	// applied as a brightness factor to whatever the bands produced.
	tf := cc.TextureFrequency
	tex := 0.7*c.texCoarse.Noise2D(x*tf, z*tf) + 0.3*c.texFine.Noise2D(x*tf*4, z*tf*4)
	bright := 1 + cc.TextureStrength*tex

	// Vegetation density jitter nudges the green channel inside the growing
	// range only.
	vf := cc.VegetationFrequency
	vegGate := smootherstep((height-c.vegLow)/6) * (1 - smootherstep((height-c.vegHigh)/14))
	veg := c.veg.Noise2D(x*vf, z*vf) * cc.VegetationStrength * vegGate

	out := rgb{
		col[0] * bright,
		col[1] * bright * (1 + veg),
		col[2] * bright,
	}

	// Peaks must stay visibly bright even after texturing; renderers darken
	// by lighting on top of this, and near-black summits read as holes.
	if height >= c.highElevation {
		floor := cc.PeakBrightnessFloor
		for i := range out {
			if out[i] < floor {
				out[i] = floor
			}
		}
	}

	for i := range out {
		if math.IsNaN(out[i]) {
			out[i] = 0.5
		}
		out[i] = clamp01(out[i])
	}
	return mgl32.Vec3{float32(out[0]), float32(out[1]), float32(out[2])}
}

func mixRGB(a, b rgb, t float64) rgb {
	return rgb{
		lerp(a[0], b[0], t),
		lerp(a[1], b[1], t),
		lerp(a[2], b[2], t),
	}
}
