package scene

import (
	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/material"
)

// NewDefaultScene creates the four-sphere scene: a diffuse blue sphere on a
// yellow ground, brushed gold on the right and a hollow glass bubble on the left.
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(-2, 2, 1),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene("default", cameraConfig, DefaultSamplingConfig())
	addDefaultSpheres(s)
	return s
}

// NewDepthOfFieldScene views the default spheres through a wide aperture
// focused on the center sphere.
func NewDepthOfFieldScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(3, 3, 2),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     20.0,
		Aperture: 2.0,
		// Auto focus on the look-at point
		FocusDistance: 0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene("depth-of-field", cameraConfig, DefaultSamplingConfig())
	addDefaultSpheres(s)
	return s
}

func addDefaultSpheres(s *Scene) {
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, metalGold)

	// Hollow bubble: the inner sphere's negative radius flips its normals
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)
}
