package renderer

import (
	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/material"
	"github.com/spoax/raytracer/pkg/scene"
)

// newSmallDefaultScene returns the default scene shrunk to a quick render
func newSmallDefaultScene(width, height, samples int) *scene.Scene {
	sc := scene.NewDefaultScene()
	sc.ApplySamplingConfig(scene.SamplingConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samples,
		MaxDepth:        10,
	})
	return sc
}

// newFacingSphereScene places a camera at the origin looking down -z at a
// diffuse sphere of radius 0.5 centered at (0, 0, -1).
func newFacingSphereScene(width, height int) *scene.Scene {
	sc := scene.NewScene("facing-sphere", geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}, scene.SamplingConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: 1,
		MaxDepth:        10,
		Seed:            42,
	})
	sc.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return sc
}
