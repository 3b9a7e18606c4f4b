package terrain

import (
	"testing"

	"skycarpet/internal/config"
)

func BenchmarkHeightAt(b *testing.B) {
	s := NewSynthesizer(config.Default())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.HeightAt(float64(i%4096)*1.7, float64(i%2048)*2.3)
	}
}

func BenchmarkHeightCacheWarm(b *testing.B) {
	cfg := config.Default()
	s := NewSynthesizer(cfg)
	c := NewHeightCache(s.HeightAt, cfg)

	// Touch a small working set once so the timed loop measures hits.
	for i := 0; i < 1024; i++ {
		c.HeightAt(float64(i%32)*2, float64(i/32)*2)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.HeightAt(float64(i%32)*2, float64((i/32)%32)*2)
	}
}

func BenchmarkColorAt(b *testing.B) {
	c := NewClassifier(config.Default())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ColorAt(float64(i%4096), float64(i%2048), float64(i%200)-50, float64(i%3))
	}
}
