package renderer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/log"
)

// Options controls how a render pass is partitioned and seeded
type Options struct {
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	TileSize   int   // Edge length of square tiles in pixels
	Seed       int64 // Base seed; tile i uses Seed+i
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		NumWorkers: 0,
		TileSize:   32,
		Seed:       42, // Deterministic for testing
	}
}

// Renderer renders a world into caller-owned ARGB pixel buffers.
// A Renderer keeps no per-pass state and may be reused for any number of passes.
type Renderer struct {
	options Options
	logger  core.Logger
}

// NewRenderer creates a new renderer. A nil logger logs to the "renderer" module.
func NewRenderer(options Options, logger core.Logger) *Renderer {
	if options.TileSize <= 0 {
		options.TileSize = DefaultOptions().TileSize
	}
	if logger == nil {
		logger = log.New("renderer")
	}
	return &Renderer{options: options, logger: logger}
}

// Options returns the renderer options
func (r *Renderer) Options() Options {
	return r.options
}

// Render renders world as seen through config into pixels using DefaultOptions.
// See Renderer.Render.
func Render(ctx context.Context, world core.Shape, config CameraConfig, pixels []uint32, width, height int) error {
	_, err := NewRenderer(DefaultOptions(), nil).Render(ctx, world, config, pixels, width, height)
	return err
}

// ValidateConfig checks the settings of config a pass depends on, taking
// config.Width as the image width. Callers run it before sizing a buffer.
func ValidateConfig(config CameraConfig) error {
	if config.Width < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWidth, config.Width)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAspectRatio, config.AspectRatio)
	}
	if config.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, config.SamplesPerPixel)
	}
	if config.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, config.MaxDepth)
	}
	return nil
}

// Validate checks a render request. width overrides config.Width.
func Validate(config CameraConfig, pixels []uint32, width, height int) error {
	config.Width = width
	if err := ValidateConfig(config); err != nil {
		return err
	}
	if expected := ImageHeight(width, config.AspectRatio); height != expected {
		return fmt.Errorf("%w: width %d at aspect %v gives height %d, got %d",
			ErrHeightMismatch, width, config.AspectRatio, expected, height)
	}
	if len(pixels) != width*height {
		return fmt.Errorf("%w: got %d pixels for %dx%d", ErrBufferSize, len(pixels), width, height)
	}
	return nil
}

// Render runs one full pass: every pixel of the width x height buffer is
// recomputed and overwritten. world and config must not be mutated until
// Render returns. Cancelling ctx stops the pass early with ErrInterrupted,
// leaving the buffer partially written.
func (r *Renderer) Render(ctx context.Context, world core.Shape, config CameraConfig, pixels []uint32, width, height int) (RenderStats, error) {
	config.Width = width
	if err := Validate(config, pixels, width, height); err != nil {
		return RenderStats{}, err
	}

	startTime := time.Now()
	camera := NewCamera(config)
	tileRenderer := NewTileRenderer(camera, world, integrator.NewPathTracingIntegrator(config.MaxDepth), config.SamplesPerPixel)
	tiles := NewTileGrid(width, height, r.options.TileSize)

	pool := NewWorkerPool(ctx, tileRenderer, pixels, width, r.options.Seed, len(tiles), r.options.NumWorkers)
	numWorkers := pool.GetNumWorkers()

	stats := RenderStats{
		Width:           width,
		Height:          height,
		Tiles:           len(tiles),
		Workers:         numWorkers,
		SamplesPerPixel: config.SamplesPerPixel,
		WorkerStats:     make([]WorkerStat, numWorkers),
	}
	for i := range stats.WorkerStats {
		stats.WorkerStats[i].ID = i
	}

	r.logger.Infof("rendering %dx%d at %d spp, depth %d (%d tiles, %d workers)",
		width, height, config.SamplesPerPixel, config.MaxDepth, len(tiles), numWorkers)

	pool.Start()
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}

	// Every submitted task produces exactly one result, even after cancellation
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("renderer: worker pool closed unexpectedly")
			break
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		stats.addTile(result)
		r.logger.Debugf("tile %d/%d (%v) done by worker %d in %v",
			i+1, len(tiles), tiles[result.TaskID].Bounds, result.WorkerID, result.Duration)
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)
	if firstErr != nil {
		r.logger.Warningf("render aborted after %v: %v", stats.Duration, firstErr)
		return stats, firstErr
	}

	r.logger.Infof("render completed in %v (%d samples)", stats.Duration, stats.TotalSamples)
	return stats, nil
}
