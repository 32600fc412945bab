package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/integrator"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	Seed               int64 // Base seed for the per-tile generators
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 10,
		MaxPasses:          1,
		Seed:               42,
	}
}

// Validate checks the configuration for consistency
func (c ProgressiveConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.MaxSamplesPerPixel <= 0 {
		return fmt.Errorf("max samples per pixel must be positive, got %d", c.MaxSamplesPerPixel)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	}
	if c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel {
		return fmt.Errorf("initial samples must be in [1, %d], got %d", c.MaxSamplesPerPixel, c.InitialSamples)
	}
	// Every pass after the first must add at least one sample per pixel
	if maxPasses := c.MaxSamplesPerPixel - c.InitialSamples + 1; c.MaxPasses > maxPasses {
		return fmt.Errorf("%d passes cannot each add samples with %d initial and %d max samples per pixel (at most %d passes)",
			c.MaxPasses, c.InitialSamples, c.MaxSamplesPerPixel, maxPasses)
	}
	return nil
}

// PassResult describes the outcome of one progressive pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// ProgressiveRaytracer renders in passes of increasing sample counts, tile by tile.
// Passes and tiles run sequentially on the calling goroutine.
type ProgressiveRaytracer struct {
	config     ProgressiveConfig
	tiles      []*Tile
	pixelStats [][]PixelStats
	raytracer  *Raytracer
	logger     core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(s *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progressive config: %w", err)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	raytracer := NewRaytracer(s, integrator.NewPathTracingIntegrator())
	raytracer.SetSamplesPerPixel(config.MaxSamplesPerPixel)

	return &ProgressiveRaytracer{
		config:     config,
		tiles:      NewTileGrid(raytracer.width, raytracer.height, config.TileSize, config.Seed),
		pixelStats: raytracer.NewPixelGrid(),
		raytracer:  raytracer,
		logger:     logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass raises every pixel to the target sample count for passNumber.
// Cancellation is checked between tiles; a cancelled pass leaves the accumulated samples intact.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (PassResult, error) {
	start := time.Now()
	targetSamples := pr.getSamplesForPass(passNumber)

	for _, tile := range pr.tiles {
		if err := ctx.Err(); err != nil {
			return PassResult{}, fmt.Errorf("pass %d cancelled: %w", passNumber, err)
		}
		pr.raytracer.RenderBounds(tile.Bounds, pr.pixelStats, tile.Sampler, targetSamples)
	}

	result := PassResult{
		PassNumber: passNumber,
		Image:      pr.raytracer.ToImage(pr.pixelStats),
		Stats:      ComputeRenderStats(pr.pixelStats),
		Duration:   time.Since(start),
		IsLast:     passNumber >= pr.config.MaxPasses,
	}

	pr.logger.Printf("Pass %d/%d: %d samples/pixel in %v (mean luminance %.4f)\n",
		passNumber, pr.config.MaxPasses, targetSamples, result.Duration, result.Stats.MeanLuminance)
	return result, nil
}

// RenderProgressive runs every pass in order, invoking callback after each one.
// It returns the final pass result.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, callback func(PassResult) error) (PassResult, error) {
	var last PassResult
	start := time.Now()

	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		result, err := pr.RenderPass(ctx, pass)
		if err != nil {
			return last, err
		}
		last = result

		if callback != nil {
			if err := callback(result); err != nil {
				return last, fmt.Errorf("pass %d callback: %w", pass, err)
			}
		}
	}

	pr.logger.Printf("Render completed in %v: %d pixels, %d samples (%.1f per pixel)\n",
		time.Since(start), last.Stats.TotalPixels, last.Stats.TotalSamples, last.Stats.AverageSamples)
	return last, nil
}
