package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ShadowAcneEpsilon is the lower bound of valid hit distances. Hits closer than
// this to a ray origin are floating point noise from the surface just left.
const ShadowAcneEpsilon = 0.001

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing against an
// implicit sky. There is no emission and no Russian roulette: a path ends when
// it escapes to the sky, is absorbed, or runs out of bounces.
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single ray. The walk is iterative: the
// throughput accumulates the product of attenuations along the path and the
// remaining depth bounds the loop.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Shape, random *rand.Rand) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	rayT := core.NewInterval(ShadowAcneEpsilon, math.Inf(1))

	for depth := pt.maxDepth; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, rayT)
		if !isHit {
			return throughput.MultiplyVec(BackgroundGradient(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, random)
		if !didScatter {
			return core.Vec3{X: 0, Y: 0, Z: 0}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce budget exhausted, no more light is gathered
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// BackgroundGradient returns the sky color seen along r: white at the horizon
// fading into sky blue straight up
func BackgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyWhite.Lerp(skyBlue, t)
}
