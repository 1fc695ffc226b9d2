package material

import (
	"math/rand"
	"testing"

	"github.com/spoax/raytracer/pkg/core"
)

func TestLambertian_AlwaysScatters(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.3, 0.3)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		T:      1,
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatalf("Lambertian should always scatter (iteration %d)", i)
		}
		if !scatter.Attenuation.Equals(albedo) {
			t.Fatalf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
		}
		if !scatter.Scattered.Origin.Equals(hit.Point) {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}

		// Target lies inside the unit sphere centered at point + normal
		offset := scatter.Scattered.Direction.Subtract(hit.Normal)
		if offset.LengthSquared() >= 1.0 {
			t.Fatalf("Scatter target %v outside the tangent unit sphere", scatter.Scattered.Direction)
		}
	}
}

func TestLambertian_FixedSampleScattersAlongNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	hit := HitRecord{
		Point:  core.NewVec3(1, 2, 3),
		Normal: core.NewVec3(0, 1, 0),
	}
	rayIn := core.NewRay(core.NewVec3(1, 5, 3), core.NewVec3(0, -1, 0))

	scatter, _ := lambertian.Scatter(rayIn, hit, fixedSampler{value: 0.5})

	if !vecNear(scatter.Scattered.Direction, hit.Normal, 1e-12) {
		t.Errorf("Expected direction %v, got %v", hit.Normal, scatter.Scattered.Direction)
	}
}
