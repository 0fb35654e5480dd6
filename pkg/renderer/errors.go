package renderer

import "errors"

var (
	ErrInvalidWidth       = errors.New("renderer: image width must be at least 1")
	ErrInvalidAspectRatio = errors.New("renderer: aspect ratio must be positive")
	ErrInvalidSamples     = errors.New("renderer: samples per pixel must be at least 1")
	ErrInvalidDepth       = errors.New("renderer: max depth must not be negative")
	ErrBufferSize         = errors.New("renderer: pixel buffer size does not match width*height")
	ErrHeightMismatch     = errors.New("renderer: height does not match width/aspect ratio")
	ErrInterrupted        = errors.New("renderer: interrupted while rendering")
)
