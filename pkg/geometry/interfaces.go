package geometry

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// Hittable interface for objects that can be hit by rays
type Hittable interface {
	// Hit returns the nearest intersection with t in (tMin, tMax), if any
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
