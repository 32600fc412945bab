package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// Raytracer drives the per-pixel sampling loop for a scene
type Raytracer struct {
	scene           *scene.Scene
	width           int
	height          int
	samplesPerPixel int
	integrator      integrator.Integrator
}

// NewRaytracer creates a new raytracer using the scene's resolution and sample count
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:           s,
		width:           s.SamplingConfig.Width,
		height:          s.SamplingConfig.Height,
		samplesPerPixel: s.SamplingConfig.SamplesPerPixel,
		integrator:      integratorInst,
	}
}

// SetSamplesPerPixel overrides the scene's recommended sample count
func (rt *Raytracer) SetSamplesPerPixel(samples int) {
	rt.samplesPerPixel = samples
}

// NewPixelGrid allocates pixel statistics indexed [j][i], with j = 0 the bottom row
func (rt *Raytracer) NewPixelGrid() [][]PixelStats {
	pixelStats := make([][]PixelStats, rt.height)
	for j := range pixelStats {
		pixelStats[j] = make([]PixelStats, rt.width)
	}
	return pixelStats
}

// SamplePixel takes jittered samples for pixel (i, j) until it holds targetSamples
// and returns how many samples were added
func (rt *Raytracer) SamplePixel(i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	camera := rt.scene.Camera
	taken := 0
	for ps.SampleCount < targetSamples {
		s := (float64(i) + sampler.Get1D()) / float64(rt.width)
		t := (float64(j) + sampler.Get1D()) / float64(rt.height)
		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, rt.scene.World, sampler))
		taken++
	}
	return taken
}

// RenderBounds samples every pixel inside bounds up to targetSamples.
// Bounds are in pixel-grid coordinates (j = 0 at the bottom).
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) int {
	taken := 0
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			taken += rt.SamplePixel(i, j, &pixelStats[j][i], sampler, targetSamples)
		}
	}
	return taken
}

// RenderPass renders the whole image in one pass, top row first, like the classic driver loop
func (rt *Raytracer) RenderPass(sampler core.Sampler) (*image.RGBA, RenderStats) {
	pixelStats := rt.NewPixelGrid()
	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			rt.SamplePixel(i, j, &pixelStats[j][i], sampler, rt.samplesPerPixel)
		}
	}
	return rt.ToImage(pixelStats), ComputeRenderStats(pixelStats)
}

// ToImage converts accumulated pixel statistics to an image with row 0 at the top
func (rt *Raytracer) ToImage(pixelStats [][]PixelStats) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for j := 0; j < rt.height; j++ {
		for i := 0; i < rt.width; i++ {
			img.SetRGBA(i, rt.height-1-j, Vec3ToColor(pixelStats[j][i].GetColor()))
		}
	}
	return img
}

// Vec3ToColor converts a linear color to RGBA: clamp to [0,1], gamma 2, quantize
func Vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(2.0)
	return color.RGBA{
		R: uint8(255.99 * colorVec.X),
		G: uint8(255.99 * colorVec.Y),
		B: uint8(255.99 * colorVec.Z),
		A: 255,
	}
}
