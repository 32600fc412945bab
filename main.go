package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-weekend-pathtracer/pkg/config"
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
	"github.com/df07/go-weekend-pathtracer/pkg/scene"
)

const appName = "raytracer"

// zerologAdapter routes core.Logger output to zerolog at info level
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Printf(format string, args ...interface{}) {
	a.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

var _ core.Logger = zerologAdapter{}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}

// createScene loads a YAML scene file when one is given, otherwise a built-in scene
func createScene(name, sceneFile string, seed int64) (*scene.Scene, error) {
	if sceneFile != "" {
		return scene.LoadFile(sceneFile)
	}
	return scene.Create(name, seed)
}

// applyOverrides resizes the scene when the config asks for an explicit
// resolution and returns the samples per pixel to render with
func applyOverrides(s *scene.Scene, cfg *config.Config) (int, error) {
	if cfg.Width > 0 && cfg.Height > 0 {
		if err := s.SetResolution(cfg.Width, cfg.Height); err != nil {
			return 0, err
		}
	}
	if cfg.Samples > 0 {
		return cfg.Samples, nil
	}
	return s.SamplingConfig.SamplesPerPixel, nil
}

func runRender(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	logger := zerologAdapter{logger: log}

	s, err := createScene(cfg.Scene, cfg.SceneFile, cfg.Seed)
	if err != nil {
		return err
	}
	samples, err := applyOverrides(s, cfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("scene", s.Name).
		Int("primitives", s.GetPrimitiveCount()).
		Int("width", s.SamplingConfig.Width).
		Int("height", s.SamplingConfig.Height).
		Int("samples", samples).
		Int("passes", cfg.Passes).
		Msg("Starting render")

	pr, err := renderer.NewProgressiveRaytracer(s, renderer.ProgressiveConfig{
		TileSize:           cfg.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: samples,
		MaxPasses:          cfg.Passes,
		Seed:               cfg.Seed,
	}, logger)
	if err != nil {
		return err
	}

	// Intermediate passes and the final image share one timestamp
	started := time.Now()
	var onPass func(renderer.PassResult) error
	if cfg.SavePasses {
		onPass = func(pass renderer.PassResult) error {
			if pass.IsLast {
				return nil
			}
			_, err := output.Save(ctx, pass.Image, output.SaveOptions{
				OutputDir: cfg.OutputDir,
				SceneName: s.Name,
				Format:    cfg.OutputFormat(),
				Timestamp: started,
				Suffix:    fmt.Sprintf("_pass%02d", pass.PassNumber),
				Logger:    logger,
			})
			return err
		}
	}

	result, err := pr.RenderProgressive(ctx, onPass)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	log.Info().
		Float64("mean_luminance", result.Stats.MeanLuminance).
		Float64("luminance_stddev", result.Stats.LuminanceStdDev).
		Msg("Image statistics")

	opts := output.SaveOptions{
		OutputDir:      cfg.OutputDir,
		SceneName:      s.Name,
		Format:         cfg.OutputFormat(),
		ThumbnailWidth: cfg.ThumbnailWidth,
		Timestamp:      started,
		Logger:         logger,
	}
	if cfg.S3.Enabled {
		uploader, err := output.NewS3Uploader(cfg.UploaderConfig(), logger)
		if err != nil {
			return err
		}
		opts.Uploader = uploader
	}

	_, err = output.Save(ctx, result.Image, opts)
	return err
}

func newRootCmd() (*cobra.Command, error) {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Monte-Carlo path tracer for sphere scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./raytracer.yaml, ./configs or $HOME/.raytracer)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	if err := v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return nil, fmt.Errorf("failed to bind flag log-level: %w", err)
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene and save the image",
		Long: `Render a built-in scene or a YAML scene file.

Output is saved to <output-dir>/<scene>/render_<timestamp>.<format>.
Settings come from flags, RAYTRACER_* environment variables and raytracer.yaml,
in that order of precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, log)
		},
	}

	flags := renderCmd.Flags()
	flags.String("scene", "random", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	flags.String("scene-file", "", "YAML scene file (overrides --scene)")
	flags.Int("width", 0, "Image width (0 uses the scene default)")
	flags.Int("height", 0, "Image height (0 uses the scene default)")
	flags.Int("samples", 0, "Samples per pixel (0 uses the scene default)")
	flags.Int("passes", 1, "Number of progressive passes")
	flags.Int("tile-size", 64, "Tile size in pixels")
	flags.Int64("seed", 42, "Random seed")
	flags.String("output-dir", "output", "Output directory")
	flags.String("format", "png", "Output format: png or ppm")
	flags.Int("thumbnail-width", 0, "Also write a PNG thumbnail of this width (0 disables)")
	flags.Bool("upload", false, "Upload the render to the configured S3 bucket")
	flags.Bool("save-passes", false, "Also save every intermediate progressive pass")

	for key, flag := range map[string]string{
		"scene":           "scene",
		"scene_file":      "scene-file",
		"width":           "width",
		"height":          "height",
		"samples":         "samples",
		"passes":          "passes",
		"tile_size":       "tile-size",
		"seed":            "seed",
		"output_dir":      "output-dir",
		"format":          "format",
		"thumbnail_width": "thumbnail-width",
		"s3.enabled":      "upload",
		"save_passes":     "save-passes",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scene.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(renderCmd, scenesCmd)
	return rootCmd, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, err := newRootCmd()
	if err == nil {
		err = rootCmd.ExecuteContext(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
