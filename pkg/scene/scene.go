package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

var (
	// ErrUnknownScene is returned when a scene name is not registered
	ErrUnknownScene = errors.New("unknown scene")

	// ErrInvalidScene is returned when a scene description cannot be built
	ErrInvalidScene = errors.New("invalid scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.HittableList // Owns every primitive and, through them, their materials
	SamplingConfig SamplingConfig
}

// SamplingConfig contains recommended rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
}

// DefaultSamplingConfig returns 1200x800 at 10 samples per pixel
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 10,
	}
}

// newScene creates a scene whose camera aspect ratio follows the sampling config
func newScene(name string, cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) (*Scene, error) {
	s := &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		SamplingConfig: samplingConfig,
	}
	if err := s.SetResolution(samplingConfig.Width, samplingConfig.Height); err != nil {
		return nil, err
	}
	return s, nil
}

// SetResolution changes the output size and rebuilds the camera for the new aspect ratio
func (s *Scene) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d must be positive", ErrInvalidScene, width, height)
	}

	cameraConfig := s.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	s.Camera = camera
	s.CameraConfig = camera.Config()
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	return nil
}

// AddSphere adds a sphere with the given material to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// GetPrimitiveCount returns the number of primitives in the world
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
