package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewDefaultScene creates a grey ground sphere with one red sphere resting on it
func NewDefaultScene() *Scene {
	return newGroundAndSphereScene("default", core.NewVec3(0, 1, 0), core.NewVec3(0.8, 0.2, 0.2))
}

// NewReferenceScene creates the reference test scene: same layout as the
// default scene, aimed at the origin with a softer red
func NewReferenceScene() *Scene {
	return newGroundAndSphereScene("reference", core.NewVec3(0, 0, 0), core.NewVec3(0.7, 0.3, 0.3))
}

// newGroundAndSphereScene builds a unit sphere of the given albedo resting on
// a large grey ground sphere, seen from (13,2,3)
func newGroundAndSphereScene(name string, lookAt, albedo core.Vec3) *Scene {
	cameraConfig := renderer.CameraConfig{
		AspectRatio:     400.0 / 225.0,
		Width:           400,
		VFov:            20,
		SamplesPerPixel: 10,
		MaxDepth:        20,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          lookAt,
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
	}

	s := New(name, cameraConfig)
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewLambertian(albedo))

	return s
}
