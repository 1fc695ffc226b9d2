package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/integrator"
	"github.com/spoax/raytracer/pkg/material"
)

// ErrUnknownMaterial is returned when a scene file names a material type or
// reference that does not exist.
var ErrUnknownMaterial = errors.New("unknown material")

// Vec3Cfg is a JSON [x, y, z] triple
type Vec3Cfg [3]float64

func (v Vec3Cfg) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

type CameraCfg struct {
	LookFrom      Vec3Cfg `json:"lookFrom"`
	LookAt        Vec3Cfg `json:"lookAt"`
	Up            Vec3Cfg `json:"up,omitempty"` // defaults to +y
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"` // 0 focuses on lookAt
}

type BackgroundCfg struct {
	Top    Vec3Cfg `json:"top"`
	Bottom Vec3Cfg `json:"bottom"`
}

type SamplingCfg struct {
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	SamplesPerPixel   int     `json:"samplesPerPixel,omitempty"`
	MaxDepth          int     `json:"maxDepth,omitempty"`
	Seed              int64   `json:"seed,omitempty"`
	AdaptiveThreshold float64 `json:"adaptiveThreshold,omitempty"`
}

// MaterialCfg describes one named material. Type is "lambertian", "metal"
// or "dielectric".
type MaterialCfg struct {
	Type            string  `json:"type"`
	Albedo          Vec3Cfg `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

type SphereCfg struct {
	Center   Vec3Cfg `json:"center"`
	Radius   float64 `json:"radius"` // negative for an inward-facing shell
	Material string  `json:"material"`
}

// FileConfig is the on-disk JSON scene format. Materials are declared once by
// name and shared by every sphere that references them.
type FileConfig struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Group       string                 `json:"group,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Background  *BackgroundCfg         `json:"background,omitempty"`
	Sampling    SamplingCfg            `json:"sampling,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Spheres     []SphereCfg            `json:"spheres"`
}

// Build creates the material
func (m MaterialCfg) Build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian":
		return material.NewLambertian(m.Albedo.vec()), nil
	case "metal":
		return material.NewMetal(m.Albedo.vec(), m.Fuzz), nil
	case "dielectric":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric refractive index must be positive, got %g", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w type %q", ErrUnknownMaterial, m.Type)
	}
}

// Build creates a scene from the configuration
func (c *FileConfig) Build() (*Scene, error) {
	if c.Camera.VFov <= 0 || c.Camera.VFov >= 180 {
		return nil, fmt.Errorf("camera vfov must be in (0, 180), got %g", c.Camera.VFov)
	}
	if c.Camera.LookFrom == c.Camera.LookAt {
		return nil, fmt.Errorf("camera lookFrom and lookAt must differ")
	}

	up := c.Camera.Up.vec()
	if up.IsZero() {
		up = core.NewVec3(0, 1, 0)
	}
	cameraConfig := geometry.CameraConfig{
		LookFrom:      c.Camera.LookFrom.vec(),
		LookAt:        c.Camera.LookAt.vec(),
		Up:            up,
		VFov:          c.Camera.VFov,
		Aperture:      c.Camera.Aperture,
		FocusDistance: c.Camera.FocusDistance,
	}

	samplingConfig := MergeSamplingConfig(DefaultSamplingConfig(), SamplingConfig{
		Width:             c.Sampling.Width,
		Height:            c.Sampling.Height,
		SamplesPerPixel:   c.Sampling.SamplesPerPixel,
		MaxDepth:          c.Sampling.MaxDepth,
		Seed:              c.Sampling.Seed,
		AdaptiveThreshold: c.Sampling.AdaptiveThreshold,
	})
	if samplingConfig.Width < 0 || samplingConfig.Height < 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", samplingConfig.Width, samplingConfig.Height)
	}

	s := NewScene(c.Name, cameraConfig, samplingConfig)
	if c.Background != nil {
		s.Background = integrator.Background{Top: c.Background.Top.vec(), Bottom: c.Background.Bottom.vec()}
	}

	materials := make(map[string]material.Material, len(c.Materials))
	for name, cfg := range c.Materials {
		mat, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for i, sphere := range c.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: %w %q", i, ErrUnknownMaterial, sphere.Material)
		}
		if sphere.Radius == 0 {
			return nil, fmt.Errorf("sphere %d: radius must be non-zero", i)
		}
		s.AddSphere(sphere.Center.vec(), sphere.Radius, mat)
	}

	return s, nil
}

// ParseSceneConfig decodes a JSON scene description
func ParseSceneConfig(r io.Reader) (*FileConfig, error) {
	var cfg FileConfig
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &cfg, nil
}

// LoadSceneFile reads and builds a JSON scene file. The scene name defaults to
// the file name.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	cfg, err := ParseSceneConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
