package meshing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
)

var up = mgl32.Vec3{0, 1, 0}

// SmoothNormals computes per-vertex normals for a finished mesh in place.
//
// Pass one accumulates raw cross-product face normals onto each vertex, which
// area-weights the result: big, well-aligned faces dominate small slivers.
// Pass two targets the one known bad spot of that approach, high peaks where
// steep faces cancel into near-flat or sideways normals that render as dark
// triangular glitches. Flagged vertices are nudged toward their neighborhood
// and toward upright, never replaced outright; heavier correction flattens
// ridgelines that are supposed to look sharp.
//
// Must run after all vertex heights are final; it reads positions only.
func SmoothNormals(mesh *Mesh, cfg config.NormalConfig, highElevation float64) {
	accumulateFaceNormals(mesh)

	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = normalizeOrUp(mesh.Vertices[i].Normal)
	}

	correctPeakNormals(mesh, cfg, highElevation)

	// Nothing downstream tolerates a NaN normal; a single bad vertex must
	// degrade to "lit as flat ground", not poison the whole chunk.
	for i := range mesh.Vertices {
		n := mesh.Vertices[i].Normal
		if isFiniteVec(n) {
			continue
		}
		mesh.Vertices[i].Normal = up
	}
}

func accumulateFaceNormals(mesh *Mesh) {
	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = mgl32.Vec3{}
	}
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0 := mesh.Indices[t]
		i1 := mesh.Indices[t+1]
		i2 := mesh.Indices[t+2]

		p0 := mesh.Vertices[i0].Position
		e1 := mesh.Vertices[i1].Position.Sub(p0)
		e2 := mesh.Vertices[i2].Position.Sub(p0)
		face := e1.Cross(e2) // length = 2x face area

		mesh.Vertices[i0].Normal = mesh.Vertices[i0].Normal.Add(face)
		mesh.Vertices[i1].Normal = mesh.Vertices[i1].Normal.Add(face)
		mesh.Vertices[i2].Normal = mesh.Vertices[i2].Normal.Add(face)
	}
}

// correctPeakNormals is the targeted second pass. A vertex is problematic
// when it sits above highElevation and its normal has tipped nearly flat
// (Y below cfg.UprightMin). The blend factor ramps in over
// cfg.CorrectionRamp units of elevation and is capped at cfg.CorrectionCap.
func correctPeakNormals(mesh *Mesh, cfg config.NormalConfig, highElevation float64) {
	var flagged []int
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		if float64(v.Position.Y()) > highElevation && float64(v.Normal.Y()) < cfg.UprightMin {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return
	}

	neighbors := vertexNeighbors(mesh)

	// Corrections read the pre-correction normals, so the outcome does not
	// depend on the order flagged vertices are visited.
	orig := make([]mgl32.Vec3, len(mesh.Vertices))
	for i := range mesh.Vertices {
		orig[i] = mesh.Vertices[i].Normal
	}

	for _, i := range flagged {
		var sum mgl32.Vec3
		for _, nb := range neighbors[i] {
			sum = sum.Add(orig[nb])
		}
		avg := normalizeOrUp(sum)

		elev := float64(mesh.Vertices[i].Position.Y()) - highElevation
		f := float32(cfg.CorrectionCap * smoothRamp(elev/cfg.CorrectionRamp))

		n := normalizeOrUp(lerpVec(orig[i], avg, f))
		n = normalizeOrUp(lerpVec(n, up, f*0.5))
		mesh.Vertices[i].Normal = n
	}
}

// vertexNeighbors derives vertex adjacency from the triangle topology. Grid
// interior vertices end up with six neighbors, edges and corners with fewer;
// deriving it from the indices keeps the pass valid for any mesh this
// package might emit, not just the regular grid.
func vertexNeighbors(mesh *Mesh) [][]uint32 {
	nbs := make([][]uint32, len(mesh.Vertices))
	link := func(a, b uint32) {
		for _, n := range nbs[a] {
			if n == b {
				return
			}
		}
		nbs[a] = append(nbs[a], b)
	}
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0 := mesh.Indices[t]
		i1 := mesh.Indices[t+1]
		i2 := mesh.Indices[t+2]
		link(i0, i1)
		link(i1, i0)
		link(i1, i2)
		link(i2, i1)
		link(i2, i0)
		link(i0, i2)
	}
	return nbs
}

// normalizeOrUp normalizes v, defaulting to straight up when the input is
// degenerate (canceling face normals) or non-finite.
func normalizeOrUp(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return up
	}
	return v.Mul(1 / l)
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// smoothRamp eases t into [0, 1] with zero slope at both ends.
func smoothRamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFiniteVec(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
