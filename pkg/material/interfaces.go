package material

import (
	"github.com/spoax/raytracer/pkg/core"
)

// Material interface for objects that can scatter rays.
// Implementations are immutable once constructed and safe to share between
// any number of shapes and goroutines.
type Material interface {
	// Scatter returns the outgoing ray and its attenuation, or false if the
	// incoming ray was absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Geometric outward normal; not flipped toward the ray
	Material Material  // Material of the hit object
}
