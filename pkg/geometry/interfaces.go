package geometry

import (
	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection with t strictly inside (tMin, tMax).
// Shapes are read-only once built and may be shared between goroutines.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
