package integrator

import (
	"math"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/material"
)

const (
	// MaxDepthLimit is the hard cap on scatter events per camera ray
	MaxDepthLimit = 50

	// TMin offsets secondary rays from their origin to avoid shadow acne
	TMin = 0.001
)

// PathState describes how a traced path ended
type PathState int

const (
	PathMiss          PathState = iota // Escaped to the background
	PathAbsorbed                       // Material absorbed the ray
	PathDepthExceeded                  // Hit something after the bounce budget ran out
)

var pathStateNames = map[PathState]string{
	PathMiss:          "miss",
	PathAbsorbed:      "absorbed",
	PathDepthExceeded: "depth-exceeded",
}

func (s PathState) String() string {
	if name, ok := pathStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// PathResult is the outcome of tracing one camera ray
type PathResult struct {
	Color    core.Vec3
	Bounces  int       // Number of scatter events before termination
	State    PathState // Terminal state
	FirstHit *material.HitRecord
}

// PathTracingIntegrator implements unidirectional path tracing against the
// sky gradient, iterating over bounces with a throughput accumulator.
type PathTracingIntegrator struct {
	maxDepth   int
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// maxDepth values outside (0, MaxDepthLimit] are clamped to MaxDepthLimit.
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth:   ClampDepth(maxDepth),
		background: background,
	}
}

// ClampDepth maps a requested bounce budget onto (0, MaxDepthLimit]
func ClampDepth(maxDepth int) int {
	if maxDepth <= 0 || maxDepth > MaxDepthLimit {
		return MaxDepthLimit
	}
	return maxDepth
}

// MaxDepth returns the effective bounce budget
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, world, sampler).Color
}

// Trace follows ray through the world until it escapes, is absorbed or runs
// out of bounces, and reports how it ended.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world geometry.Shape, sampler core.Sampler) PathResult {
	throughput := core.NewVec3(1, 1, 1)
	result := PathResult{}

	for depth := 0; ; depth++ {
		hit, isHit := world.Hit(ray, TMin, math.Inf(1))
		if !isHit {
			result.Color = throughput.MultiplyVec(pt.background.Color(ray))
			result.Bounces = depth
			result.State = PathMiss
			return result
		}
		if depth == 0 {
			result.FirstHit = hit
		}

		// Out of bounces: terminate without consulting the material
		if depth >= pt.maxDepth {
			result.Bounces = depth
			result.State = PathDepthExceeded
			return result
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			result.Bounces = depth
			result.State = PathAbsorbed
			return result
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}
}
