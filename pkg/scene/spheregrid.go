package scene

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := core.DegreesToRadians(h)

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	unit := core.NewInterval(0, 1)
	return core.NewVec3(unit.Clamp(r), unit.Clamp(g), unit.Clamp(blue))
}

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 5

// NewSphereGridScene creates a ground sphere with a grid of small diffuse
// spheres whose hue varies along x and chroma along z
func NewSphereGridScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		Width:           400,
		VFov:            40,
		SamplesPerPixel: 20,
		MaxDepth:        20,
		LookFrom:        core.NewVec3(0, 4, 9),
		LookAt:          core.NewVec3(0, 0.4, 0),
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0.3,
		FocusDist:       0, // Auto: distance to LookAt
	}

	s := New("spheregrid", cameraConfig)
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	targetArea := 5.0
	spacing := targetArea / float64(SphereGridSize-1)
	radius := spacing * 0.35

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2
			z := float64(j)*spacing - targetArea/2

			hue := float64(i) / float64(SphereGridSize) * 360
			chroma := minChroma + float64(j)/float64(SphereGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			albedo := material.NewLambertian(oklchToRGB(lightness, chroma, hue))
			s.AddSphere(core.NewVec3(x, radius, z), radius, albedo)
		}
	}

	return s
}
