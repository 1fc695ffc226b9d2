package imageio

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Annotate returns a copy of img with caption drawn in a dark band along the
// bottom edge. The source image is not modified.
func Annotate(img image.Image, caption string) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	if caption == "" {
		return out
	}

	dc := gg.NewContextForRGBA(out)
	width := float64(dc.Width())
	height := float64(dc.Height())
	bandHeight := dc.FontHeight() + 8

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, height-bandHeight, width, bandHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(caption, 4, height-bandHeight/2, 0, 0.5)

	return out
}

// Thumbnail scales img to fit within maxWidth x maxHeight, keeping the aspect
// ratio. Images already small enough are copied unscaled.
func Thumbnail(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if maxWidth > 0 && width > maxWidth {
		scale = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 && height > maxHeight {
		scale = min(scale, float64(maxHeight)/float64(height))
	}

	dstWidth := max(1, int(float64(width)*scale))
	dstHeight := max(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
