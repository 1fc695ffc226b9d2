package scene

import (
	"math"
	"testing"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/material"
)

func TestMergeSamplingConfig(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{Width: 64, SamplesPerPixel: 4})

	if merged.Width != 64 || merged.SamplesPerPixel != 4 {
		t.Errorf("Expected overrides to apply, got %+v", merged)
	}
	if merged.Height != base.Height || merged.MaxDepth != base.MaxDepth || merged.Seed != base.Seed {
		t.Errorf("Expected zero-valued override fields to keep base values, got %+v", merged)
	}
}

func TestApplySamplingConfig_UpdatesAspectRatio(t *testing.T) {
	s := NewDefaultScene()
	s.ApplySamplingConfig(SamplingConfig{Width: 300, Height: 100})

	if s.CameraConfig.AspectRatio != 3.0 {
		t.Errorf("Expected aspect ratio 3, got %f", s.CameraConfig.AspectRatio)
	}
	if s.Camera.Config().AspectRatio != 3.0 {
		t.Errorf("Expected camera to be rebuilt with aspect ratio 3, got %f", s.Camera.Config().AspectRatio)
	}
}

func TestDefaultScene_Layout(t *testing.T) {
	s := NewDefaultScene()

	if s.GetPrimitiveCount() != 5 {
		t.Fatalf("Expected 5 spheres, got %d", s.GetPrimitiveCount())
	}

	// The bubble's inner sphere shares the outer sphere's glass material
	var outer, inner *geometry.Sphere
	for _, shape := range s.World.Shapes {
		sphere := shape.(*geometry.Sphere)
		if sphere.Center.Equals(core.NewVec3(-1, 0, -1)) {
			if sphere.Radius > 0 {
				outer = sphere
			} else {
				inner = sphere
			}
		}
	}
	if outer == nil || inner == nil {
		t.Fatal("Expected hollow glass bubble made of two concentric spheres")
	}
	if inner.Radius != -0.45 {
		t.Errorf("Expected inner radius -0.45, got %f", inner.Radius)
	}
	if outer.Material != inner.Material {
		t.Error("Expected the bubble's spheres to share one material")
	}
	if _, ok := outer.Material.(*material.Dielectric); !ok {
		t.Errorf("Expected dielectric bubble, got %T", outer.Material)
	}
}

func TestDepthOfFieldScene_Camera(t *testing.T) {
	s := NewDepthOfFieldScene()

	if s.Camera.LensRadius() != 1.0 {
		t.Errorf("Expected lens radius 1, got %f", s.Camera.LensRadius())
	}

	// Auto focus puts the look-at point on the focus plane
	sampler := core.NewSeededSampler(42)
	ray := s.Camera.GetRay(0.5, 0.5, sampler)
	if ray.At(1).Subtract(s.CameraConfig.LookAt).Length() > 1e-9 {
		t.Errorf("Expected center ray to converge on %v, got %v", s.CameraConfig.LookAt, ray.At(1))
	}
}

func TestRandomScene(t *testing.T) {
	first := NewRandomScene(7)
	second := NewRandomScene(7)
	other := NewRandomScene(8)

	// Ground + at most 22x22 small spheres + 3 large ones
	count := first.GetPrimitiveCount()
	if count < 4 || count > 1+22*22+3 {
		t.Fatalf("Unexpected sphere count %d", count)
	}
	if second.GetPrimitiveCount() != count {
		t.Fatalf("Same seed produced %d and %d spheres", count, second.GetPrimitiveCount())
	}

	same := true
	for i, shape := range first.World.Shapes {
		a := shape.(*geometry.Sphere)
		b := second.World.Shapes[i].(*geometry.Sphere)
		if !a.Center.Equals(b.Center) || a.Radius != b.Radius {
			t.Fatalf("Sphere %d differs between runs with the same seed", i)
		}
		if i < other.GetPrimitiveCount() {
			c := other.World.Shapes[i].(*geometry.Sphere)
			if !a.Center.Equals(c.Center) {
				same = false
			}
		}
	}
	if same && other.GetPrimitiveCount() == count {
		t.Error("Different seeds should produce different layouts")
	}

	clearance := core.NewVec3(4, 0.2, 0)
	for _, shape := range first.World.Shapes {
		sphere := shape.(*geometry.Sphere)
		if sphere.Radius == 0.2 && sphere.Center.Subtract(clearance).Length() <= 0.9 {
			t.Errorf("Small sphere at %v overlaps the clearance zone", sphere.Center)
		}
	}

	if first.CameraConfig.FocusDistance != 10 || first.Camera.LensRadius() != 0.05 {
		t.Errorf("Unexpected camera config %+v", first.CameraConfig)
	}
	if first.SamplingConfig.Seed != 7 {
		t.Errorf("Expected seed 7 in sampling config, got %d", first.SamplingConfig.Seed)
	}
}

func TestSphereGridScene(t *testing.T) {
	s := NewSphereGridScene()
	if s.GetPrimitiveCount() != 101 {
		t.Errorf("Expected ground plus 100 spheres, got %d", s.GetPrimitiveCount())
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for hue := 0.0; hue < 360; hue += 30 {
		c := oklchToRGB(0.65, 0.25, hue)
		for _, v := range []float64{c.X, c.Y, c.Z} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Errorf("Hue %f produced out of range color %v", hue, c)
			}
		}
	}
}
