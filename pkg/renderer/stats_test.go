package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	if !ps.GetColor().Equals(core.Vec3{}) {
		t.Errorf("Expected black for an unsampled pixel, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if !ps.GetColor().Equals(core.NewVec3(0.5, 0.5, 0)) {
		t.Errorf("Expected average (0.5, 0.5, 0), got %v", ps.GetColor())
	}
}

func TestComputeRenderStats(t *testing.T) {
	white := PixelStats{ColorAccum: core.NewVec3(2, 2, 2), SampleCount: 2}
	black := PixelStats{ColorAccum: core.Vec3{}, SampleCount: 4}
	pixelStats := [][]PixelStats{{white, black}}

	stats := ComputeRenderStats(pixelStats)
	if stats.TotalPixels != 2 || stats.TotalSamples != 6 {
		t.Errorf("Expected 2 pixels and 6 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.AverageSamples != 3 {
		t.Errorf("Expected 3 samples per pixel, got %f", stats.AverageSamples)
	}
	if math.Abs(stats.MeanLuminance-0.5) > 1e-12 {
		t.Errorf("Expected mean luminance 0.5, got %f", stats.MeanLuminance)
	}

	// Unbiased sample standard deviation of {1, 0}
	if math.Abs(stats.LuminanceStdDev-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("Expected stddev %f, got %f", math.Sqrt(0.5), stats.LuminanceStdDev)
	}
}

func TestComputeRenderStats_Empty(t *testing.T) {
	stats := ComputeRenderStats(nil)
	if stats.TotalPixels != 0 || stats.AverageSamples != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestNewTileGrid_CoversImage(t *testing.T) {
	width, height := 10, 7
	tiles := NewTileGrid(width, height, 4, 1)
	if len(tiles) != 6 {
		t.Fatalf("Expected 6 tiles, got %d", len(tiles))
	}

	covered := make([]int, width*height)
	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("Expected tile id %d, got %d", i, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[y*width+x]++
			}
		}
	}
	for i, count := range covered {
		if count != 1 {
			t.Fatalf("Pixel %d covered %d times", i, count)
		}
	}
}

func TestNewTileGrid_IndependentStreams(t *testing.T) {
	tiles := NewTileGrid(8, 8, 4, 1)
	first := tiles[0].Sampler.Get1D()
	for _, tile := range tiles[1:] {
		if tile.Sampler.Get1D() == first {
			t.Errorf("Tile %d starts with the same value as tile 0", tile.ID)
		}
	}
}
