package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/spoax/raytracer/pkg/core"
)

// ToneMap converts a linear radiance value to an 8-bit color: gamma 2
// (square root per channel), clamp to [0, 1], then scale by 255.99.
func ToneMap(c core.Vec3) color.RGBA {
	c = c.GammaCorrect(2.0)
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(255.99 * v)
}

// ToRGBA returns img as an *image.RGBA anchored at the origin, copying only
// when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			rgba.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return rgba
}
