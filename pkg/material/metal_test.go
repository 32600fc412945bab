package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name             string
		inputFuzzness    float64
		expectedFuzzness float64
	}{
		{"Valid fuzzness 0.0", 0.0, 0.0},
		{"Valid fuzzness 0.5", 0.5, 0.5},
		{"Valid fuzzness 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzzness)
			if metal.Fuzzness != tt.expectedFuzzness {
				t.Errorf("Expected fuzzness %f, got %f", tt.expectedFuzzness, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Ray hitting a flat surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	// Incident (0, -1, -1) normalized reflects to (0, -0.707, 0.707)
	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction
	if actual.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}

	if !scatter.Attenuation.Equals(albedo) {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_AngleOfIncidenceEqualsReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(1, 1, 1), 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))
	normal := core.NewVec3(0, 1, 0)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}

	directions := []core.Vec3{
		core.NewVec3(1, -1, 0),
		core.NewVec3(0.2, -3, 0.7),
		core.NewVec3(-5, -0.1, 2),
	}

	for _, dir := range directions {
		scatter, didScatter := metal.Scatter(core.NewRay(core.NewVec3(0, 1, 0), dir), hit, sampler)
		if !didScatter {
			t.Fatalf("Expected reflection for %v", dir)
		}
		v := dir.Normalize()
		r := scatter.Scattered.Direction
		if math.Abs(r.Dot(normal)-(-v.Dot(normal))) > 1e-10 {
			t.Errorf("Angle mismatch for %v: r·n=%f, -v·n=%f", dir, r.Dot(normal), -v.Dot(normal))
		}
		if math.Abs(r.Length()-1) > 1e-10 {
			t.Errorf("Expected unit reflection, got length %f", r.Length())
		}
	}
}

func TestMetal_AbsorbsGrazingFuzzedRays(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}

	// Nearly grazing incidence, perturbed by (0, -0.8, 0)
	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	_, didScatter := metal.Scatter(rayIn, hit, &sequenceSampler{values: []float64{0.5, 0.1, 0.5}})
	if didScatter {
		t.Error("Expected the fuzzed ray to be absorbed below the surface")
	}
}

func TestMetal_ScatterRateWithFuzz(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}
	rayIn := core.NewRay(core.NewVec3(-1, 0.1, 0), core.NewVec3(1, -0.1, 0))

	scattered := 0
	n := 5000
	for i := 0; i < n; i++ {
		scatter, ok := metal.Scatter(rayIn, hit, sampler)
		if ok {
			scattered++
			if scatter.Scattered.Direction.Dot(hit.Normal) <= 0 {
				t.Fatal("Scattered ray must leave the surface")
			}
		}
	}

	// Grazing rays with maximum fuzz are absorbed a sizeable fraction of the time
	if scattered == 0 || scattered == n {
		t.Errorf("Expected a mix of absorbed and scattered rays, got %d/%d scattered", scattered, n)
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if !got.Equals(core.NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1, 1, 0), got %v", got)
	}
}

// sequenceSampler replays values in order, cycling
type sequenceSampler struct {
	values []float64
	index  int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.index%len(s.values)]
	s.index++
	return v
}

func (s *sequenceSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}
