package scene

import (
	"context"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene pairs a world with the camera configuration used to view it
type Scene struct {
	Name         string
	World        *World
	CameraConfig renderer.CameraConfig
}

// New creates an empty scene
func New(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		World:        NewWorld(),
		CameraConfig: cameraConfig,
	}
}

// AddSphere adds a sphere to the world and returns it so callers can move it later
func (s *Scene) AddSphere(center core.Vec3, radius float64, material core.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, material)
	s.World.Add(sphere)
	return sphere
}

// Spheres returns every sphere in the world in insertion order
func (s *Scene) Spheres() []*geometry.Sphere {
	var spheres []*geometry.Sphere
	for _, shape := range s.World.Shapes() {
		if sphere, ok := shape.(*geometry.Sphere); ok {
			spheres = append(spheres, sphere)
		}
	}
	return spheres
}

// Size returns the image dimensions of the scene's camera configuration
func (s *Scene) Size() (width, height int) {
	return s.CameraConfig.Width, s.CameraConfig.ImageHeight()
}

// NewBuffer allocates a pixel buffer matching Size. The camera configuration
// is validated first so an invalid width never reaches the allocation.
func (s *Scene) NewBuffer() ([]uint32, error) {
	if err := renderer.ValidateConfig(s.CameraConfig); err != nil {
		return nil, err
	}
	width, height := s.Size()
	return make([]uint32, width*height), nil
}

// Render renders the scene at its configured size into pixels
func (s *Scene) Render(ctx context.Context, r *renderer.Renderer, pixels []uint32) (renderer.RenderStats, error) {
	width, height := s.Size()
	return r.Render(ctx, s.World, s.CameraConfig, pixels, width, height)
}
