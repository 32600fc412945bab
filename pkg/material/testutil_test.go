package material

import "github.com/df07/go-weekend-pathtracer/pkg/core"

// constSampler always returns the same value
type constSampler struct {
	value float64
}

func (c constSampler) Get1D() float64 { return c.value }
func (c constSampler) Get3D() core.Vec3 {
	return core.NewVec3(c.value, c.value, c.value)
}
