package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// World is an ordered, append-only list of shapes. Hitting the world tests
// every member and keeps the closest valid hit.
type World struct {
	shapes []core.Shape
}

// NewWorld creates a world containing shapes
func NewWorld(shapes ...core.Shape) *World {
	return &World{shapes: append([]core.Shape(nil), shapes...)}
}

// Add appends a shape to the world
func (w *World) Add(shape core.Shape) {
	w.shapes = append(w.shapes, shape)
}

// Shapes returns the members in insertion order
func (w *World) Shapes() []core.Shape {
	return w.shapes
}

// Len returns the number of members
func (w *World) Len() int {
	return len(w.shapes)
}

// Hit returns the closest hit over all members within rayT
func (w *World) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := rayT.Max

	for _, shape := range w.shapes {
		if hit, ok := shape.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); ok {
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, closest != nil
}
