package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

const (
	// EnvPrefix is prepended to every environment variable override
	EnvPrefix = "RAYTRACER"

	configName = "raytracer"
)

// Config is the render configuration assembled from file, env and flags
type Config struct {
	Scene          string   `mapstructure:"scene"`
	SceneFile      string   `mapstructure:"scene_file"`
	Width          int      `mapstructure:"width"`   // 0 keeps the scene's width
	Height         int      `mapstructure:"height"`  // 0 keeps the scene's height
	Samples        int      `mapstructure:"samples"` // 0 keeps the scene's sample count
	Passes         int      `mapstructure:"passes"`
	TileSize       int      `mapstructure:"tile_size"`
	Seed           int64    `mapstructure:"seed"`
	OutputDir      string   `mapstructure:"output_dir"`
	Format         string   `mapstructure:"format"`
	ThumbnailWidth int      `mapstructure:"thumbnail_width"`
	LogLevel       string   `mapstructure:"log_level"`
	SavePasses     bool     `mapstructure:"save_passes"` // also save every intermediate pass
	S3             S3Config `mapstructure:"s3"`
}

// S3Config contains the optional upload target
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	progressive := renderer.DefaultProgressiveConfig()

	v.SetDefault("scene", "random")
	v.SetDefault("scene_file", "")
	v.SetDefault("width", 0)
	v.SetDefault("height", 0)
	v.SetDefault("samples", 0)
	v.SetDefault("passes", progressive.MaxPasses)
	v.SetDefault("tile_size", progressive.TileSize)
	v.SetDefault("seed", progressive.Seed)
	v.SetDefault("output_dir", "output")
	v.SetDefault("format", string(output.FormatPNG))
	v.SetDefault("thumbnail_width", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("save_passes", false)

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
}

// Load reads cfgFile (or raytracer.yaml from the search path) into v, applies
// RAYTRACER_* environment overrides and returns the validated result.
// A missing config file is not an error when cfgFile is empty.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".raytracer"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the renderer cannot use
func (c *Config) Validate() error {
	if c.Scene == "" && c.SceneFile == "" {
		return fmt.Errorf("%w: scene or scene_file must be set", ErrInvalidConfig)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: resolution %dx%d cannot be negative", ErrInvalidConfig, c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("%w: width and height must be set together", ErrInvalidConfig)
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples cannot be negative, got %d", ErrInvalidConfig, c.Samples)
	}
	if c.Passes <= 0 {
		return fmt.Errorf("%w: passes must be positive, got %d", ErrInvalidConfig, c.Passes)
	}
	if c.Samples > 0 && c.Passes > c.Samples {
		return fmt.Errorf("%w: %d passes exceed %d samples per pixel", ErrInvalidConfig, c.Passes, c.Samples)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("%w: thumbnail_width cannot be negative, got %d", ErrInvalidConfig, c.ThumbnailWidth)
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		return fmt.Errorf("%w: s3.bucket is required when s3 is enabled", ErrInvalidConfig)
	}
	return nil
}

// OutputFormat returns the validated output format
func (c *Config) OutputFormat() output.Format {
	return output.Format(c.Format)
}

// UploaderConfig converts the s3 block for the output package
func (c *Config) UploaderConfig() output.S3Config {
	return output.S3Config{
		Endpoint:  c.S3.Endpoint,
		Region:    c.S3.Region,
		Bucket:    c.S3.Bucket,
		Prefix:    c.S3.Prefix,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
