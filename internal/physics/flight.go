package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/world"
)

// carpetHalfExtent is the footprint radius sampled when finding the terrain
// floor, so the carpet's edges never clip into a rising slope.
const carpetHalfExtent = 2.5

// TerrainFloor returns the highest terrain under the carpet's footprint at
// (x, z). Five samples cover the center and the four footprint corners.
func TerrainFloor(x, z float64, w *world.World) float64 {
	floor := w.HeightAt(x, z)
	offsets := [4][2]float64{
		{-carpetHalfExtent, -carpetHalfExtent},
		{carpetHalfExtent, -carpetHalfExtent},
		{-carpetHalfExtent, carpetHalfExtent},
		{carpetHalfExtent, carpetHalfExtent},
	}
	for _, o := range offsets {
		if h := w.HeightAt(x+o[0], z+o[1]); h > floor {
			floor = h
		}
	}
	return floor
}

// Clearance returns the vertical gap between a position and the terrain
// floor beneath it. Negative means the position is underground.
func Clearance(pos mgl32.Vec3, w *world.World) float64 {
	return float64(pos.Y()) - TerrainFloor(float64(pos.X()), float64(pos.Z()), w)
}

// ClampAboveTerrain raises a position so it keeps at least minClearance
// above the terrain floor. The second return reports whether clamping
// happened, so movement code can cancel downward velocity on contact.
func ClampAboveTerrain(pos mgl32.Vec3, minClearance float64, w *world.World) (mgl32.Vec3, bool) {
	floor := TerrainFloor(float64(pos.X()), float64(pos.Z()), w)
	lowest := float32(floor + minClearance)
	if pos.Y() >= lowest {
		return pos, false
	}
	return mgl32.Vec3{pos.X(), lowest, pos.Z()}, true
}
