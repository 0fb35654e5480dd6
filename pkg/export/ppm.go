// Package export writes packed ARGB pixel buffers to image files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

var (
	// ErrBufferSize is returned when a buffer does not hold width*height pixels
	ErrBufferSize = errors.New("export: buffer size does not match image size")

	// ErrInvalidPPM is returned by ReadPPM for malformed input
	ErrInvalidPPM = errors.New("export: invalid ppm")

	// ErrUnknownFormat is returned by Save for unsupported file extensions
	ErrUnknownFormat = errors.New("export: unknown image format")
)

func checkSize(pixels []uint32, width, height int) error {
	if width < 1 || height < 1 || len(pixels) != width*height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrBufferSize, len(pixels), width, height)
	}
	return nil
}

// WritePPM writes pixels as a plain-text P3 image: a "P3" line, a
// "<width> <height>" line, a "255" line, then one "<R> <G> <B>" line per
// pixel in row-major order. The alpha byte is dropped.
func WritePPM(w io.Writer, pixels []uint32, width, height int) error {
	if err := checkSize(pixels, width, height); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height)
	for _, p := range pixels {
		r, g, b := renderer.UnpackRGB(p)
		fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
	}
	return bw.Flush()
}

// maxPreallocPixels bounds the buffer reserved from a PPM header. Larger
// images grow as pixel data arrives, so a lying header cannot force a huge
// allocation.
const maxPreallocPixels = 1 << 20

// ReadPPM parses a P3 image with a maximum value of 255 back into an opaque
// packed buffer. Comments starting with '#' run to the end of the line.
func ReadPPM(r io.Reader) (pixels []uint32, width, height int, err error) {
	sc := &ppmScanner{br: bufio.NewReader(r)}

	magic, err := sc.token()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: header: %w", ErrInvalidPPM, err)
	}
	if magic != "P3" {
		return nil, 0, 0, fmt.Errorf("%w: magic %q", ErrInvalidPPM, magic)
	}

	var header [3]int
	for i := range header {
		if header[i], err = sc.int(); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: header: %w", ErrInvalidPPM, err)
		}
	}
	width, height, maxValue := header[0], header[1], header[2]
	if width < 1 || height < 1 || maxValue != 255 {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d max %d", ErrInvalidPPM, width, height, maxValue)
	}
	if width > math.MaxInt32/height {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d is too large", ErrInvalidPPM, width, height)
	}

	total := width * height
	pixels = make([]uint32, 0, min(total, maxPreallocPixels))
	for i := 0; i < total; i++ {
		var rgb [3]int
		for c := range rgb {
			if rgb[c], err = sc.int(); err != nil {
				return nil, 0, 0, fmt.Errorf("%w: pixel %d: %w", ErrInvalidPPM, i, err)
			}
			if rgb[c] < 0 || rgb[c] > 255 {
				return nil, 0, 0, fmt.Errorf("%w: pixel %d: channel %d out of range", ErrInvalidPPM, i, rgb[c])
			}
		}
		pixels = append(pixels, renderer.OpaqueAlpha|uint32(rgb[0])<<16|uint32(rgb[1])<<8|uint32(rgb[2]))
	}

	return pixels, width, height, nil
}

// ppmScanner splits plain PPM text into whitespace separated tokens
type ppmScanner struct {
	br *bufio.Reader
}

// token returns the next token, or io.ErrUnexpectedEOF when the input ends first
func (s *ppmScanner) token() (string, error) {
	var tok []byte
	for {
		c, err := s.br.ReadByte()
		if err == io.EOF {
			if len(tok) > 0 {
				return string(tok), nil
			}
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}

		switch c {
		case '#':
			if _, err := s.br.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
			if len(tok) > 0 {
				return string(tok), nil
			}
		case ' ', '\t', '\n', '\r', '\v', '\f':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

// int returns the next token as a decimal integer
func (s *ppmScanner) int() (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}
