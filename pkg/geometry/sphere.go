package geometry

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Sphere represents a sphere shape. The center may be moved between renders;
// radius and material are fixed at construction.
type Sphere struct {
	center   core.Vec3
	radius   float64
	material core.Material
}

// NewSphere creates a new sphere. A negative radius is clamped to zero.
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{
		center:   center,
		radius:   math.Max(0, radius),
		material: material,
	}
}

// Center returns the current sphere center
func (s *Sphere) Center() core.Vec3 {
	return s.center
}

// SetCenter moves the sphere to c
func (s *Sphere) SetCenter(c core.Vec3) {
	s.center = c
}

// Translate moves the sphere by offset
func (s *Sphere) Translate(offset core.Vec3) {
	s.center = s.center.Add(offset)
}

// Radius returns the sphere radius
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Material returns the material shared by this sphere
func (s *Sphere) Material() core.Material {
	return s.material
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := s.center.Subtract(ray.Origin)

	// Quadratic coefficients with h = b/-2
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.radius*s.radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return nil, false
		}
	}

	hitRecord := &core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.material,
	}

	var outwardNormal core.Vec3
	if s.radius > 0 {
		outwardNormal = hitRecord.Point.Subtract(s.center).Divide(s.radius)
	} else {
		// A point sphere has no surface orientation; face the ray
		outwardNormal = ray.Direction.Normalize().Negate()
	}
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
