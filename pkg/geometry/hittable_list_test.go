package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if isHit || hit != nil {
		t.Errorf("Expected no hit for empty list, got %v", hit)
	}
}

func TestHittableList_ReturnsClosest(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))
	nearSphere := NewSphere(core.NewVec3(0, 0, -3), 1.0, near)
	farSphere := NewSphere(core.NewVec3(0, 0, -10), 1.0, far)

	tests := []struct {
		name string
		list *HittableList
	}{
		{"near first", NewHittableList(nearSphere, farSphere)},
		{"far first", NewHittableList(farSphere, nearSphere)},
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if hit.Material != near {
				t.Errorf("Expected the nearer sphere's material")
			}
			if math.Abs(hit.T-2.0) > 1e-9 {
				t.Errorf("Expected t=2, got %f", hit.T)
			}
		})
	}
}

func TestHittableList_RespectsRange(t *testing.T) {
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -3), 1.0, nil),
		NewSphere(core.NewVec3(0, 0, -10), 1.0, nil),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, ok := list.Hit(ray, 0.001, 1.5); ok {
		t.Error("Expected no hit when tMax precedes every sphere")
	}

	hit, ok := list.Hit(ray, 5, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit on the far sphere")
	}
	if math.Abs(hit.T-9.0) > 1e-9 {
		t.Errorf("Expected t=9, got %f", hit.T)
	}
}

// countingHittable records the tMax it was queried with
type countingHittable struct {
	t        float64
	lastTMax float64
}

func (c *countingHittable) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	c.lastTMax = tMax
	if c.t > tMin && c.t < tMax {
		return &material.HitRecord{T: c.t}, true
	}
	return nil, false
}

func TestHittableList_NarrowsTMax(t *testing.T) {
	first := &countingHittable{t: 4}
	second := &countingHittable{t: 2}
	third := &countingHittable{t: 3}
	list := NewHittableList(first, second, third)

	hit, ok := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0.001, 100)
	if !ok || hit.T != 2 {
		t.Fatalf("Expected closest t=2, got %v", hit)
	}
	if first.lastTMax != 100 || second.lastTMax != 4 || third.lastTMax != 2 {
		t.Errorf("Expected tMax sequence 100,4,2, got %f,%f,%f", first.lastTMax, second.lastTMax, third.lastTMax)
	}
}

func TestHittableList_Add(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -2), 0.5, nil))
	if list.Len() != 1 {
		t.Errorf("Expected 1 object, got %d", list.Len())
	}
}
