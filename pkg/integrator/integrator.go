package integrator

import (
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance arriving along ray from world.
	// Implementations must be safe to call concurrently with distinct random generators.
	RayColor(ray core.Ray, world core.Shape, random *rand.Rand) core.Vec3
}
