package renderer

import (
	"image"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/imageio"
	"github.com/spoax/raytracer/pkg/integrator"
	"github.com/spoax/raytracer/pkg/scene"
)

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator *integrator.PathTracingIntegrator
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(sc *scene.Scene) *Raytracer {
	rt := &Raytracer{scene: sc}
	rt.setSamplingConfig(sc.SamplingConfig)
	return rt
}

// MergeSamplingConfig updates only the non-zero fields of the sampling configuration
func (rt *Raytracer) MergeSamplingConfig(updates scene.SamplingConfig) {
	rt.setSamplingConfig(scene.MergeSamplingConfig(rt.config, updates))
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() scene.SamplingConfig {
	return rt.config
}

// Integrator returns the integrator used for every camera ray
func (rt *Raytracer) Integrator() *integrator.PathTracingIntegrator {
	return rt.integrator
}

func (rt *Raytracer) setSamplingConfig(config scene.SamplingConfig) {
	rt.config = config
	rt.width = config.Width
	rt.height = config.Height
	rt.integrator = integrator.NewPathTracingIntegrator(config.MaxDepth, rt.scene.Background)
}

// CameraRay returns the camera ray through image pixel (x, y) offset by
// jitter within the pixel. Image rows grow downward while the camera's t
// coordinate grows upward.
func (rt *Raytracer) CameraRay(x, y int, jitter core.Vec2, sampler core.Sampler) core.Ray {
	j := rt.height - 1 - y
	s := (float64(x) + jitter.X) / float64(rt.width)
	t := (float64(j) + jitter.Y) / float64(rt.height)
	return rt.scene.Camera.GetRay(s, t, sampler)
}

// samplePixel traces one jittered camera ray through (x, y)
func (rt *Raytracer) samplePixel(x, y int, sampler core.Sampler) integrator.PathResult {
	ray := rt.CameraRay(x, y, sampler.Get2D(), sampler)
	return rt.integrator.Trace(ray, rt.scene.World, sampler)
}

// RenderPass renders the whole image on the calling goroutine with a single
// sampler seeded from the sampling configuration. Rows are traced from the
// top of the image down.
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	sampler := core.NewSeededSampler(rt.config.Seed)
	samples := max(1, rt.config.SamplesPerPixel)

	stats := newRenderStats(rt.width*rt.height, samples)
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			var pixel PixelStats
			for sample := 0; sample < samples; sample++ {
				pixel.AddPath(rt.samplePixel(x, y, sampler))
			}

			img.SetRGBA(x, y, imageio.ToneMap(pixel.GetColor()))
			stats.addPixel(&pixel)
		}
	}

	stats.finalize()
	return img, stats
}
