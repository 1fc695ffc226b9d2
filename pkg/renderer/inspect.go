package renderer

import (
	"fmt"
	"math"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/integrator"
	"github.com/spoax/raytracer/pkg/material"
)

// PixelInspection describes what the ray through the center of a pixel sees
type PixelInspection struct {
	X, Y         int
	Hit          bool
	SphereIndex  int // Index into the scene's world list, -1 on a miss
	MaterialType string
	Properties   map[string]interface{}
	T            float64
	Point        core.Vec3
	Normal       core.Vec3
	FrontFace    bool // Ray arrived against the geometric normal
	State        integrator.PathState
	Bounces      int
	Color        core.Vec3 // Radiance of the traced path before tone mapping
}

// InspectPixel traces one ray through the center of pixel (x, y) with a
// sampler seeded from the sampling configuration.
func (rt *Raytracer) InspectPixel(x, y int) (PixelInspection, error) {
	if x < 0 || y < 0 || x >= rt.width || y >= rt.height {
		return PixelInspection{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, rt.width, rt.height)
	}

	sampler := core.NewSeededSampler(rt.config.Seed)
	ray := rt.CameraRay(x, y, core.NewVec2(0.5, 0.5), sampler)
	result := rt.integrator.Trace(ray, rt.scene.World, sampler)

	info := PixelInspection{
		X:           x,
		Y:           y,
		SphereIndex: -1,
		State:       result.State,
		Bounces:     result.Bounces,
		Color:       result.Color,
	}
	if result.FirstHit == nil {
		return info, nil
	}

	hit := result.FirstHit
	info.Hit = true
	info.T = hit.T
	info.Point = hit.Point
	info.Normal = hit.Normal
	info.FrontFace = ray.Direction.Dot(hit.Normal) < 0
	info.MaterialType, info.Properties = describeMaterial(hit.Material)

	for i, shape := range rt.scene.World.Shapes {
		if rec, ok := shape.Hit(ray, integrator.TMin, math.Inf(1)); ok && rec.T == hit.T {
			info.SphereIndex = i
			break
		}
	}

	return info, nil
}

func describeMaterial(mat material.Material) (string, map[string]interface{}) {
	switch m := mat.(type) {
	case *material.Lambertian:
		return "lambertian", map[string]interface{}{
			"albedo": []float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z},
		}
	case *material.Metal:
		return "metal", map[string]interface{}{
			"albedo": []float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z},
			"fuzz":   m.Fuzz,
		}
	case *material.Dielectric:
		return "dielectric", map[string]interface{}{
			"refractiveIndex": m.RefractiveIndex,
		}
	default:
		return "unknown", map[string]interface{}{}
	}
}
