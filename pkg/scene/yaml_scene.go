package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// sceneFile is the on-disk YAML layout of a scene
type sceneFile struct {
	Name      string                  `yaml:"name"`
	Width     int                     `yaml:"width"`
	Height    int                     `yaml:"height"`
	Samples   int                     `yaml:"samples"`
	Camera    cameraFile              `yaml:"camera"`
	Materials map[string]materialFile `yaml:"materials"`
	Spheres   []sphereFile            `yaml:"spheres"`
}

type cameraFile struct {
	LookFrom      []float64 `yaml:"look_from"`
	LookAt        []float64 `yaml:"look_at"`
	Up            []float64 `yaml:"up"`
	VFov          float64   `yaml:"vfov"`
	Aperture      float64   `yaml:"aperture"`
	FocusDistance float64   `yaml:"focus_distance"`
}

type materialFile struct {
	Type            string    `yaml:"type"`
	Albedo          []float64 `yaml:"albedo"`
	Fuzz            float64   `yaml:"fuzz"`
	RefractiveIndex float64   `yaml:"refractive_index"`
}

type sphereFile struct {
	Center   []float64 `yaml:"center"`
	Radius   float64   `yaml:"radius"`
	Material string    `yaml:"material"`
}

// LoadFile reads a YAML scene description from disk
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from a YAML description. Spheres that name the same
// material share a single material instance.
func Parse(data []byte) (*Scene, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	cameraConfig, err := file.Camera.toConfig()
	if err != nil {
		return nil, err
	}

	samplingConfig := DefaultSamplingConfig()
	if file.Width != 0 {
		samplingConfig.Width = file.Width
	}
	if file.Height != 0 {
		samplingConfig.Height = file.Height
	}
	if file.Samples != 0 {
		samplingConfig.SamplesPerPixel = file.Samples
	}
	if samplingConfig.SamplesPerPixel < 0 {
		return nil, fmt.Errorf("%w: samples %d must be positive", ErrInvalidScene, samplingConfig.SamplesPerPixel)
	}

	name := file.Name
	if name == "" {
		name = "custom"
	}
	s, err := newScene(name, cameraConfig, samplingConfig)
	if err != nil {
		return nil, err
	}

	materials := make(map[string]material.Material, len(file.Materials))
	for matName, m := range file.Materials {
		mat, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", matName, err)
		}
		materials[matName] = mat
	}

	for i, sf := range file.Spheres {
		center, err := toVec3(sf.Center)
		if err != nil {
			return nil, fmt.Errorf("sphere %d center: %w", i, err)
		}
		if sf.Radius == 0 {
			return nil, fmt.Errorf("%w: sphere %d has zero radius", ErrInvalidScene, i)
		}
		mat, ok := materials[sf.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references unknown material %q", ErrInvalidScene, i, sf.Material)
		}
		s.AddSphere(center, sf.Radius, mat)
	}

	return s, nil
}

func (c cameraFile) toConfig() (geometry.CameraConfig, error) {
	lookFrom, err := toVec3(c.LookFrom)
	if err != nil {
		return geometry.CameraConfig{}, fmt.Errorf("camera look_from: %w", err)
	}
	lookAt, err := toVec3(c.LookAt)
	if err != nil {
		return geometry.CameraConfig{}, fmt.Errorf("camera look_at: %w", err)
	}
	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		if up, err = toVec3(c.Up); err != nil {
			return geometry.CameraConfig{}, fmt.Errorf("camera up: %w", err)
		}
	}
	vfov := c.VFov
	if vfov == 0 {
		vfov = 20
	}
	return geometry.CameraConfig{
		LookFrom:      lookFrom,
		LookAt:        lookAt,
		Up:            up,
		VFov:          vfov,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	}, nil
}

func (m materialFile) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		albedo, err := toVec3(m.Albedo)
		if err != nil {
			return nil, fmt.Errorf("albedo: %w", err)
		}
		return material.NewLambertian(albedo), nil
	case "metal":
		albedo, err := toVec3(m.Albedo)
		if err != nil {
			return nil, fmt.Errorf("albedo: %w", err)
		}
		return material.NewMetal(albedo, m.Fuzz), nil
	case "dielectric":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("%w: refractive index %g must be positive", ErrInvalidScene, m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", ErrInvalidScene, m.Type)
	}
}

func toVec3(values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: expected 3 components, got %d", ErrInvalidScene, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
