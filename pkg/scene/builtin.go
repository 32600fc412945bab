package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// Builder creates a built-in scene; seed drives any procedural placement
type Builder func(seed int64) (*Scene, error)

var builtins = map[string]Builder{
	"random":       NewRandomScene,
	"hollow-glass": NewHollowGlassScene,
	"two-spheres":  NewTwoSpheresScene,
	"ground":       NewGroundScene,
}

// Names returns the sorted names of the built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named built-in scene
func Create(name string, seed int64) (*Scene, error) {
	builder, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return builder(seed)
}

// NewRandomScene creates the large field of small random spheres around three big ones
func NewRandomScene(seed int64) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		Aperture:      0.0,
		FocusDistance: 10.0,
	}
	s, err := newScene("random", cameraConfig, DefaultSamplingConfig())
	if err != nil {
		return nil, err
	}

	random := core.NewSeededSampler(seed)
	rnd := random.Get1D

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	keepClear := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rnd()
			center := core.NewVec3(float64(a)+0.9*rnd(), 0.2, float64(b)+0.9*rnd())
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8: // diffuse
				albedo := core.NewVec3(rnd()*rnd(), rnd()*rnd(), rnd()*rnd())
				s.AddSphere(center, 0.2, material.NewLambertian(albedo))
			case chooseMat < 0.95: // metal
				albedo := core.NewVec3(0.5*(1+rnd()), 0.5*(1+rnd()), 0.5*(1+rnd()))
				s.AddSphere(center, 0.2, material.NewMetal(albedo, 0.5*rnd()))
			default: // glass
				s.AddSphere(center, 0.2, material.NewDielectric(1.5))
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s, nil
}

// NewHollowGlassScene creates three spheres on a ground sphere, one of them a hollow glass shell
func NewHollowGlassScene(int64) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(3, 3, 2),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     20,
	}
	s, err := newScene("hollow-glass", cameraConfig, SamplingConfig{Width: 400, Height: 200, SamplesPerPixel: 100})
	if err != nil {
		return nil, err
	}

	glass := material.NewDielectric(1.5)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	// Negative radius flips the normals to make the shell hollow
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)

	return s, nil
}

// NewTwoSpheresScene creates two touching spheres filling a wide field of view
func NewTwoSpheresScene(int64) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}
	s, err := newScene("two-spheres", cameraConfig, SamplingConfig{Width: 200, Height: 100, SamplesPerPixel: 100})
	if err != nil {
		return nil, err
	}

	r := math.Cos(math.Pi / 4)
	s.AddSphere(core.NewVec3(-r, 0, -1), r, material.NewLambertian(core.NewVec3(0, 0, 1)))
	s.AddSphere(core.NewVec3(r, 0, -1), r, material.NewLambertian(core.NewVec3(1, 0, 0)))

	return s, nil
}

// NewGroundScene creates a single large ground sphere seen from straight above
func NewGroundScene(int64) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 5, 0),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 0, -1),
		VFov:     20,
	}
	s, err := newScene("ground", cameraConfig, SamplingConfig{Width: 64, Height: 64, SamplesPerPixel: 100})
	if err != nil {
		return nil, err
	}

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s, nil
}
