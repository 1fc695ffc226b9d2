package geometry

import (
	"math"
	"testing"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/material"
)

func TestHittableList_ReturnsNearestHit(t *testing.T) {
	nearMat := material.NewLambertian(core.NewVec3(1, 0, 0))
	farMat := material.NewLambertian(core.NewVec3(0, 0, 1))
	near := NewSphere(core.NewVec3(0, 0, -1), 0.5, nearMat)
	far := NewSphere(core.NewVec3(0, 0, -3), 0.5, farMat)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	nearHit, _ := near.Hit(ray, 0.001, math.Inf(1))
	farHit, _ := far.Hit(ray, 0.001, math.Inf(1))
	expectedT := math.Min(nearHit.T, farHit.T)

	tests := []struct {
		name string
		list *HittableList
	}{
		{"near first", NewHittableList(near, far)},
		{"far first", NewHittableList(far, near)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if hit.T != expectedT {
				t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
			}
			if hit.Material != nearMat {
				t.Error("Expected the nearer sphere's material")
			}
		})
	}
}

func TestHittableList_RespectsTMax(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 0.5, nil))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, 0.001, 2.0); isHit {
		t.Error("Expected miss when every hit lies beyond tMax")
	}
	if _, isHit := list.Hit(ray, 0.001, 3.0); !isHit {
		t.Error("Expected hit within tMax")
	}
}

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	if list.Len() != 0 {
		t.Fatalf("Expected empty list, got %d shapes", list.Len())
	}

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if isHit || hit != nil {
		t.Error("Empty list should never report a hit")
	}
}
