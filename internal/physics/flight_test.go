package physics_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
	"skycarpet/internal/physics"
	"skycarpet/internal/world"
)

func testWorld() *world.World {
	cfg := config.Default()
	cfg.Seed = 42
	return world.New(cfg)
}

func TestTerrainFloorCoversFootprint(t *testing.T) {
	w := testWorld()

	// The floor must be the maximum over the sampled footprint, never just
	// the center height, so a slope rising under the carpet's edge counts.
	spots := [][2]float64{{0, 0}, {523.7, -1880.2}, {-4096, 4096}, {12.5, 12.5}}
	for _, s := range spots {
		x, z := s[0], s[1]
		got := physics.TerrainFloor(x, z, w)

		center := w.HeightAt(x, z)
		if got < center {
			t.Errorf("TerrainFloor(%v, %v) = %v below center height %v", x, z, got, center)
		}

		// Recompute the expected max by hand over the same five samples.
		want := center
		for _, o := range [][2]float64{{-2.5, -2.5}, {2.5, -2.5}, {-2.5, 2.5}, {2.5, 2.5}} {
			if h := w.HeightAt(x+o[0], z+o[1]); h > want {
				want = h
			}
		}
		if got != want {
			t.Errorf("TerrainFloor(%v, %v) = %v, want footprint max %v", x, z, got, want)
		}
	}
}

func TestClearance(t *testing.T) {
	w := testWorld()

	floor := physics.TerrainFloor(100, 200, w)

	// 10 units above the floor: clearance 10 (float32 position rounding only).
	pos := mgl32.Vec3{100, float32(floor + 10), 200}
	if got := physics.Clearance(pos, w); math.Abs(got-10) > 1e-3 {
		t.Errorf("Clearance 10 above floor = %v", got)
	}

	// 5 units under the floor: clearance is negative.
	pos = mgl32.Vec3{100, float32(floor - 5), 200}
	if got := physics.Clearance(pos, w); got > -4.99 {
		t.Errorf("Clearance below floor = %v, want about -5", got)
	}
}

func TestClampAboveTerrain(t *testing.T) {
	w := testWorld()
	const minClearance = 6.0

	floor := physics.TerrainFloor(-300, 750, w)

	// Underground position: clamped up to exactly floor + minClearance.
	pos := mgl32.Vec3{-300, float32(floor - 50), 750}
	clamped, hit := physics.ClampAboveTerrain(pos, minClearance, w)
	if !hit {
		t.Fatalf("expected clamp for an underground position")
	}
	if want := float32(floor + minClearance); clamped.Y() != want {
		t.Errorf("clamped Y = %v, want %v", clamped.Y(), want)
	}
	if clamped.X() != pos.X() || clamped.Z() != pos.Z() {
		t.Errorf("clamp moved the position horizontally: %v -> %v", pos, clamped)
	}

	// Just inside the clearance band: still clamped up.
	pos = mgl32.Vec3{-300, float32(floor + minClearance/2), 750}
	clamped, hit = physics.ClampAboveTerrain(pos, minClearance, w)
	if !hit || clamped.Y() != float32(floor+minClearance) {
		t.Errorf("half-clearance position not raised: hit=%v y=%v", hit, clamped.Y())
	}

	// Well above: untouched, and reported as such.
	pos = mgl32.Vec3{-300, float32(floor + 500), 750}
	clamped, hit = physics.ClampAboveTerrain(pos, minClearance, w)
	if hit {
		t.Errorf("high flight reported as clamped")
	}
	if clamped != pos {
		t.Errorf("high flight position changed: %v -> %v", pos, clamped)
	}
}
