package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
)

// HeightSource answers terrain height and slope queries in world coordinates.
// Implementations must be pure in (x, z): the builder relies on that to make
// chunk seams line up without any cross-chunk stitching.
type HeightSource interface {
	HeightAt(x, z float64) float64
	SlopeAt(x, z float64) float64
}

// ColorSource classifies one vertex into a color. Height and slope are passed
// in so the classifier sees exactly the values the mesh was built from.
type ColorSource interface {
	ColorAt(x, z, height, slope float64) mgl32.Vec3
}

// Builder turns chunk coordinates into terrain meshes. It is stateless apart
// from its sources and safe to call at any cadence; the frame scheduler
// decides how many chunks to build per frame, not the builder.
type Builder struct {
	height HeightSource
	color  ColorSource

	chunkSize  float64
	resolution int
	normals    config.NormalConfig
	highElev   float64
}

// NewBuilder wires a builder over the given height and color sources.
func NewBuilder(height HeightSource, color ColorSource, cfg config.Config) *Builder {
	return &Builder{
		height:     height,
		color:      color,
		chunkSize:  cfg.World.ChunkSize,
		resolution: cfg.World.TerrainResolution,
		normals:    cfg.Normal,
		highElev:   cfg.World.HighElevation,
	}
}

// BuildChunk builds the mesh for chunk (chunkX, chunkZ): resolution^2
// vertices spanning chunkSize world units, two triangles per grid cell, and
// smoothed normals.
//
// Vertex world coordinates are computed as chunkSize * (chunk + i/(res-1)),
// so the shared edge of two neighboring chunks evaluates at bit-identical
// positions from either side. That, plus pure height/color sources, is the
// whole seam story; nothing reads neighbor chunks.
func (b *Builder) BuildChunk(chunkX, chunkZ int) *Mesh {
	res := b.resolution
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, res*res),
		Indices:  make([]uint32, 0, (res-1)*(res-1)*6),
	}

	for iz := 0; iz < res; iz++ {
		for ix := 0; ix < res; ix++ {
			x := b.chunkSize * (float64(chunkX) + float64(ix)/float64(res-1))
			z := b.chunkSize * (float64(chunkZ) + float64(iz)/float64(res-1))

			h := b.height.HeightAt(x, z)
			slope := b.height.SlopeAt(x, z)

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: mgl32.Vec3{float32(x), float32(h), float32(z)},
				Color:    b.color.ColorAt(x, z, h, slope),
			})
		}
	}

	// Two triangles per cell, wound counter-clockwise seen from above
	// (+x east, +z south, +y up).
	for iz := 0; iz < res-1; iz++ {
		for ix := 0; ix < res-1; ix++ {
			a := uint32(iz*res + ix)
			bb := a + 1
			c := a + uint32(res)
			d := c + 1
			mesh.Indices = append(mesh.Indices, a, c, bb, bb, c, d)
		}
	}

	// Normals run strictly after all heights are finalized.
	SmoothNormals(mesh, b.normals, b.highElev)
	return mesh
}
