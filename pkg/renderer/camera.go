package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	AspectRatio     float64   // Ratio of image width over height
	Width           int       // Image width in pixels; height is derived
	VFov            float64   // Vertical field of view in degrees
	SamplesPerPixel int       // Number of rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
	LookFrom        core.Vec3 // Camera position
	LookAt          core.Vec3 // Point the camera is looking at
	VUp             core.Vec3 // Camera-relative up direction
	DefocusAngle    float64   // Variation angle of rays through each pixel in degrees (0 = pinhole)
	FocusDist       float64   // Distance from LookFrom to the plane of perfect focus (<=0 = auto)
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     1.0,
		Width:           100,
		VFov:            90,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
	}
}

// ImageHeight returns the image height derived from width and aspect ratio,
// never less than one pixel and saturating at math.MaxInt32
func ImageHeight(width int, aspectRatio float64) int {
	if !(aspectRatio > 0) {
		return 1
	}
	height := float64(width) / aspectRatio
	if height > math.MaxInt32 {
		return math.MaxInt32
	}
	return max(1, int(height))
}

// ImageHeight returns the image height this configuration renders
func (c CameraConfig) ImageHeight() int {
	return ImageHeight(c.Width, c.AspectRatio)
}

// Camera holds the view geometry derived from a CameraConfig
type Camera struct {
	config        CameraConfig
	imageHeight   int
	center        core.Vec3 // Camera center
	pixel00       core.Vec3 // Location of pixel 0, 0
	pixelDeltaU   core.Vec3 // Offset to pixel to the right
	pixelDeltaV   core.Vec3 // Offset to pixel below
	u, v, w       core.Vec3 // Camera frame basis vectors
	defocusDiskU  core.Vec3 // Defocus disk horizontal radius
	defocusDiskV  core.Vec3 // Defocus disk vertical radius
	focusDistance float64
}

// NewCamera derives the view basis, viewport and defocus disk from config
func NewCamera(config CameraConfig) *Camera {
	imageHeight := config.ImageHeight()
	center := config.LookFrom

	focusDistance := config.FocusDist
	if focusDistance <= 0 {
		focusDistance = config.LookFrom.Subtract(config.LookAt).Length()
		if focusDistance == 0 {
			focusDistance = 1
		}
	}

	// Viewport dimensions on the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * focusDistance
	viewportWidth := viewportHeight * (float64(config.Width) / float64(imageHeight))

	// Orthonormal basis for the camera frame
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := focusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return &Camera{
		config:        config,
		imageHeight:   imageHeight,
		center:        center,
		pixel00:       pixel00,
		pixelDeltaU:   pixelDeltaU,
		pixelDeltaV:   pixelDeltaV,
		u:             u,
		v:             v,
		w:             w,
		defocusDiskU:  u.Multiply(defocusRadius),
		defocusDiskV:  v.Multiply(defocusRadius),
		focusDistance: focusDistance,
	}
}

// GetRay returns a ray from the defocus disk (or the camera center for a
// pinhole camera) through a randomly jittered point inside pixel (i, j)
func (c *Camera) GetRay(i, j int, random *rand.Rand) core.Ray {
	offsetX := random.Float64() - 0.5
	offsetY := random.Float64() - 0.5
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offsetX)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offsetY))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(random)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// defocusDiskSample returns a random point in the camera defocus disk
func (c *Camera) defocusDiskSample(random *rand.Rand) core.Vec3 {
	p := core.RandomInUnitDisk(random)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// PixelCenter returns the un-jittered center of pixel (i, j)
func (c *Camera) PixelCenter(i, j int) core.Vec3 {
	return c.pixel00.Add(c.pixelDeltaU.Multiply(float64(i))).Add(c.pixelDeltaV.Multiply(float64(j)))
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 { return c.center }

// ImageHeight returns the derived image height
func (c *Camera) ImageHeight() int { return c.imageHeight }

// PixelDeltas returns the world-space offsets between horizontally and vertically adjacent pixels
func (c *Camera) PixelDeltas() (core.Vec3, core.Vec3) { return c.pixelDeltaU, c.pixelDeltaV }

// Basis returns the camera frame: u points right, v up and w backwards
func (c *Camera) Basis() (u, v, w core.Vec3) { return c.u, c.v, c.w }

// DefocusDisk returns the defocus disk radius vectors
func (c *Camera) DefocusDisk() (core.Vec3, core.Vec3) { return c.defocusDiskU, c.defocusDiskV }

// FocusDistance returns the focus distance in use after auto-calculation
func (c *Camera) FocusDistance() float64 { return c.focusDistance }

// Config returns the configuration the camera was derived from
func (c *Camera) Config() CameraConfig { return c.config }
