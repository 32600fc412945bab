package renderer

import (
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	TotalSamples    int     // Total number of samples taken
	AverageSamples  float64 // Average samples per pixel
	MeanLuminance   float64 // Mean luminance of the averaged pixel colors
	LuminanceStdDev float64 // Standard deviation of pixel luminance across the image
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// ComputeRenderStats summarizes a grid of pixel statistics
func ComputeRenderStats(pixelStats [][]PixelStats) RenderStats {
	var stats RenderStats
	var luminances []float64

	for y := range pixelStats {
		for x := range pixelStats[y] {
			ps := &pixelStats[y][x]
			stats.TotalPixels++
			stats.TotalSamples += ps.SampleCount
			luminances = append(luminances, ps.GetColor().Luminance())
		}
	}

	if stats.TotalPixels == 0 {
		return stats
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	if len(luminances) > 1 {
		stats.MeanLuminance, stats.LuminanceStdDev = stat.MeanStdDev(luminances, nil)
	} else {
		stats.MeanLuminance = luminances[0]
	}
	return stats
}
