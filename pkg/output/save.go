package output

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Uploader stores encoded images remotely
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SaveOptions controls where and how a render is written
type SaveOptions struct {
	OutputDir      string
	SceneName      string
	Format         Format
	ThumbnailWidth int       // 0 disables the thumbnail
	Uploader       Uploader  // nil disables upload
	Timestamp      time.Time // zero means now
	Suffix         string    // appended to the file name before the extension
	Logger         core.Logger
}

// SaveResult reports the files written by Save
type SaveResult struct {
	Path          string
	ThumbnailPath string
	UploadedKeys  []string
}

// Save writes img to <OutputDir>/<SceneName>/render_<timestamp><suffix>.<ext>,
// optionally alongside a PNG thumbnail, and uploads both when an uploader is set.
func Save(ctx context.Context, img image.Image, opts SaveOptions) (SaveResult, error) {
	var result SaveResult
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Timestamp.IsZero() {
		opts.Timestamp = time.Now()
	}

	sceneDir := filepath.Join(opts.OutputDir, opts.SceneName)
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := opts.Timestamp.Format("20060102_150405")
	baseName := fmt.Sprintf("render_%s%s", stamp, opts.Suffix)

	data, err := EncodeBytes(img, opts.Format)
	if err != nil {
		return result, err
	}
	result.Path = filepath.Join(sceneDir, baseName+"."+string(opts.Format))
	if err := os.WriteFile(result.Path, data, 0644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", result.Path, err)
	}
	logger.Printf("Render saved as %s\n", result.Path)

	var thumbData []byte
	if opts.ThumbnailWidth > 0 {
		thumbData, err = EncodeBytes(Thumbnail(img, opts.ThumbnailWidth), FormatPNG)
		if err != nil {
			return result, err
		}
		result.ThumbnailPath = filepath.Join(sceneDir, baseName+"_thumb.png")
		if err := os.WriteFile(result.ThumbnailPath, thumbData, 0644); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", result.ThumbnailPath, err)
		}
		logger.Printf("Thumbnail saved as %s\n", result.ThumbnailPath)
	}

	if opts.Uploader == nil {
		return result, nil
	}

	key, err := opts.Uploader.Upload(ctx, opts.SceneName+"/"+filepath.Base(result.Path), data, opts.Format.ContentType())
	if err != nil {
		return result, err
	}
	result.UploadedKeys = append(result.UploadedKeys, key)

	if thumbData != nil {
		key, err := opts.Uploader.Upload(ctx, opts.SceneName+"/"+filepath.Base(result.ThumbnailPath), thumbData, FormatPNG.ContentType())
		if err != nil {
			return result, err
		}
		result.UploadedKeys = append(result.UploadedKeys, key)
	}

	return result, nil
}
