package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ToRGBA converts a packed ARGB buffer into an image
func ToRGBA(pixels []uint32, width, height int) (*image.RGBA, error) {
	if err := checkSize(pixels, width, height); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			p := pixels[j*width+i]
			r, g, b := renderer.UnpackRGB(p)
			img.SetRGBA(i, j, color.RGBA{R: r, G: g, B: b, A: renderer.Alpha(p)})
		}
	}
	return img, nil
}

// WritePNG encodes pixels as a PNG image
func WritePNG(w io.Writer, pixels []uint32, width, height int) error {
	img, err := ToRGBA(pixels, width, height)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Save writes pixels to path, choosing the format from the extension
// (.ppm or .png). Parent directories are created as needed.
func Save(path string, pixels []uint32, width, height int) error {
	var write func(io.Writer, []uint32, int, int) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		write = WritePPM
	case ".png":
		write = WritePNG
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := write(file, pixels, width, height); err != nil {
		return err
	}
	return file.Close()
}
