package renderer

import (
	"image"
	"math"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer for the given scene
func NewTileRenderer(sc *scene.Scene) *TileRenderer {
	return &TileRenderer{raytracer: NewRaytracer(sc)}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples,
// stopping early where adaptive sampling decides a pixel has converged.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	samplingConfig := tr.raytracer.GetSamplingConfig()

	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.adaptiveSamplePixel(x, y, &pixelStats[y][x], sampler, targetSamples, samplingConfig)
			stats.addSamples(samplesUsed)
		}
	}

	stats.finalize()
	return stats
}

// adaptiveSamplePixel samples one pixel until it converges or reaches maxSamples
func (tr *TileRenderer) adaptiveSamplePixel(x, y int, ps *PixelStats, sampler core.Sampler, maxSamples int, samplingConfig scene.SamplingConfig) int {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < maxSamples && !shouldStopSampling(ps, maxSamples, samplingConfig) {
		ps.AddPath(tr.raytracer.samplePixel(x, y, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func shouldStopSampling(ps *PixelStats, maxSamples int, samplingConfig scene.SamplingConfig) bool {
	if samplingConfig.AdaptiveThreshold <= 0 {
		return false
	}

	// Calculate minimum samples as percentage of max samples, but ensure at least 1 sample
	minSamples := max(1, int(float64(maxSamples)*samplingConfig.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	relativeError := math.Sqrt(variance) / mean
	return relativeError < samplingConfig.AdaptiveThreshold
}
