package scene

import (
	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/integrator"
	"github.com/spoax/raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// A scene is read-only while it is being rendered.
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Background     integrator.Background
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width              int     // Image width
	Height             int     // Image height
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth (capped at 50)
	Seed               int64   // Base seed for per-tile random generators
	AdaptiveMinSamples float64 // Minimum samples as percentage of max samples (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence; 0 disables
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:              400,
		Height:             200,
		SamplesPerPixel:    100,
		MaxDepth:           integrator.MaxDepthLimit,
		Seed:               42,
		AdaptiveMinSamples: 0.15,
		AdaptiveThreshold:  0,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base

	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.AdaptiveMinSamples != 0 {
		result.AdaptiveMinSamples = override.AdaptiveMinSamples
	}
	if override.AdaptiveThreshold != 0 {
		result.AdaptiveThreshold = override.AdaptiveThreshold
	}

	return result
}

// NewScene creates a scene with an empty world. The camera aspect ratio is
// taken from the sampling width and height.
func NewScene(name string, cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	s := &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		CameraConfig:   cameraConfig,
		Background:     integrator.DefaultBackground(),
		SamplingConfig: samplingConfig,
	}
	s.rebuildCamera()
	return s
}

// AddSphere adds a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.World.Add(sphere)
	return sphere
}

// ApplySamplingConfig merges override into the sampling configuration and
// rebuilds the camera when the image shape changed.
func (s *Scene) ApplySamplingConfig(override SamplingConfig) {
	s.SamplingConfig = MergeSamplingConfig(s.SamplingConfig, override)
	s.rebuildCamera()
}

// ApplyCameraConfig merges override into the camera configuration
func (s *Scene) ApplyCameraConfig(override geometry.CameraConfig) {
	s.CameraConfig = geometry.MergeCameraConfig(s.CameraConfig, override)
	s.rebuildCamera()
}

// GetPrimitiveCount returns the total number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

func (s *Scene) rebuildCamera() {
	if s.SamplingConfig.Width > 0 && s.SamplingConfig.Height > 0 {
		s.CameraConfig.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	}
	s.Camera = geometry.NewCamera(s.CameraConfig)
}
