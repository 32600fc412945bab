package integrator

import (
	"math"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/geometry"
)

const (
	// MaxDepth is the number of bounces after which a path is treated as absorbed
	MaxDepth = 50

	// HitEpsilon rejects intersections this close to the ray origin (shadow acne)
	HitEpsilon = 0.001
)

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing with one scatter
// sample per bounce and a sky gradient for escaped rays
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, world, sampler, 0)
}

// rayColor is the recursive estimator; depth counts bounces taken so far
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler, depth int) core.Vec3 {
	hit, isHit := world.Hit(ray, HitEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray)
	}

	if depth >= MaxDepth {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, sampler, depth+1))
}

// BackgroundGradient returns the sky color for a ray that escaped the scene:
// white straight up, sky blue straight down, interpolated on 0.5*(y+1)
func BackgroundGradient(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyBlue.Lerp(skyWhite, t)
}
