package geometry

import (
	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/material"
)

// HittableList is a flat collection of shapes tested in order.
// It holds references to its members and never copies or mutates them.
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list containing the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest hit across all shapes
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}
