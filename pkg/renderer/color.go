package renderer

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// OpaqueAlpha is the alpha byte of every packed pixel
const OpaqueAlpha uint32 = 0xFF << 24

var intensity = core.NewInterval(0.000, 0.999)

// LinearToGamma applies the gamma 2 transform. Non-positive and NaN inputs map to zero.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// ChannelToByte quantizes a gamma-encoded channel: clamp to [0, 0.999] then
// scale by 256 and truncate, so the result is always in [0, 255]
func ChannelToByte(c float64) uint32 {
	return uint32(256 * intensity.Clamp(c))
}

// PackColor gamma-corrects a linear color and packs it as 0xAARRGGBB with full opacity
func PackColor(c core.Vec3) uint32 {
	r := ChannelToByte(LinearToGamma(c.X))
	g := ChannelToByte(LinearToGamma(c.Y))
	b := ChannelToByte(LinearToGamma(c.Z))
	return OpaqueAlpha | r<<16 | g<<8 | b
}

// UnpackRGB extracts the red, green and blue bytes of a packed pixel
func UnpackRGB(pixel uint32) (r, g, b uint8) {
	return uint8(pixel >> 16), uint8(pixel >> 8), uint8(pixel)
}

// Alpha extracts the alpha byte of a packed pixel
func Alpha(pixel uint32) uint8 {
	return uint8(pixel >> 24)
}
