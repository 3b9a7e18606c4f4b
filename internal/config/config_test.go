package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.World.TerrainResolution < 2 {
		t.Errorf("default terrain resolution %d is unusable", cfg.World.TerrainResolution)
	}
	if cfg.Noise.TransitionWidth < 0.2 {
		t.Errorf("default transition width %v is below the step-artifact minimum", cfg.Noise.TransitionWidth)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("seed: 99\nworld:\n  view_distance: 7\nnoise:\n  ridge_sharpness: 5.0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed not overlaid: got %d, want 99", cfg.Seed)
	}
	if cfg.World.ViewDistance != 7 {
		t.Errorf("view distance not overlaid: got %d, want 7", cfg.World.ViewDistance)
	}
	// Untouched fields keep their defaults.
	def := Default()
	if cfg.World.ChunkSize != def.World.ChunkSize {
		t.Errorf("chunk size changed without being configured: got %v, want %v",
			cfg.World.ChunkSize, def.World.ChunkSize)
	}
	// Out-of-range tunables are clamped, not rejected.
	if cfg.Noise.RidgeSharpness != 2.0 {
		t.Errorf("ridge sharpness not clamped: got %v, want 2.0", cfg.Noise.RidgeSharpness)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidateRejectsBrokenGeometry(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.World.ChunkSize = 0 }},
		{"resolution below 2", func(c *Config) { c.World.TerrainResolution = 1 }},
		{"inverted height bounds", func(c *Config) { c.World.MinHeight, c.World.MaxHeight = 10, -10 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestValidateClampsTunables(t *testing.T) {
	cfg := Default()
	cfg.Noise.TransitionWidth = 0.01
	cfg.Normal.CorrectionCap = 3.0
	cfg.Color.PeakBrightnessFloor = -1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Noise.TransitionWidth != 0.2 {
		t.Errorf("transition width not clamped up: got %v", cfg.Noise.TransitionWidth)
	}
	if cfg.Normal.CorrectionCap != 0.9 {
		t.Errorf("correction cap not clamped: got %v", cfg.Normal.CorrectionCap)
	}
	if cfg.Color.PeakBrightnessFloor != 0 {
		t.Errorf("brightness floor not clamped: got %v", cfg.Color.PeakBrightnessFloor)
	}
}
