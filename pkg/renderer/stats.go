package renderer

import (
	"fmt"
	"time"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Maximum samples allowed per pixel
	MinSamples     int           // Minimum samples taken per pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	TotalBounces   int           // Scatter events across all samples
	AverageBounces float64       // Scatter events per sample
	DepthExceeded  int           // Samples cut off by the bounce limit
	Duration       time.Duration // Wall time, when measured
}

// String formats the statistics as a one-line caption
func (rs RenderStats) String() string {
	s := fmt.Sprintf("%d px | %.1f spp | %.2f bounces/sample", rs.TotalPixels, rs.AverageSamples, rs.AverageBounces)
	if rs.Duration > 0 {
		s += fmt.Sprintf(" | %v", rs.Duration.Round(time.Millisecond))
	}
	return s
}

func newRenderStats(pixels, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixels,
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// addSamples records samplesUsed new samples for one pixel
func (rs *RenderStats) addSamples(samplesUsed int) {
	rs.TotalSamples += samplesUsed
	rs.MinSamples = min(rs.MinSamples, samplesUsed)
	rs.MaxSamplesUsed = max(rs.MaxSamplesUsed, samplesUsed)
}

// addPixel records the full history of one pixel
func (rs *RenderStats) addPixel(ps *PixelStats) {
	rs.addSamples(ps.SampleCount)
	rs.TotalBounces += ps.BounceCount
	rs.DepthExceeded += ps.DepthExceeded
}

func (rs *RenderStats) finalize() {
	if rs.TotalPixels > 0 {
		rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	}
	if rs.TotalSamples > 0 {
		rs.AverageBounces = float64(rs.TotalBounces) / float64(rs.TotalSamples)
	}
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
	BounceCount      int       // Scatter events across all samples
	DepthExceeded    int       // Samples terminated by the bounce limit
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// AddPath adds a traced path's color and bounce statistics
func (ps *PixelStats) AddPath(result integrator.PathResult) {
	ps.AddSample(result.Color)
	ps.BounceCount += result.Bounces
	if result.State == integrator.PathDepthExceeded {
		ps.DepthExceeded++
	}
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
