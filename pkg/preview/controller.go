// Package preview drives interactive re-rendering of a mutable scene.
// Edits are queued without blocking the caller and applied by the render
// loop between passes, so a pass never sees a scene being edited.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Frame is one completed render pass
type Frame struct {
	Pixels []uint32
	Width  int
	Height int
	Stats  renderer.RenderStats
	Pass   int // 1 for the first published frame
}

// Controller owns the edit queue and the latest frame for one scene handle
type Controller struct {
	handle   *scene.Handle
	renderer *renderer.Renderer
	logger   core.Logger

	mu         sync.Mutex
	pending    []func(*scene.Scene)
	selected   int
	numSpheres int
	frame      *Frame
	passes     int
}

// NewController creates a controller. The last sphere starts selected,
// since built-in scenes add the ground first.
func NewController(handle *scene.Handle, r *renderer.Renderer, logger core.Logger) *Controller {
	c := &Controller{handle: handle, renderer: r, logger: logger}
	handle.View(func(s *scene.Scene) {
		c.numSpheres = len(s.Spheres())
	})
	c.selected = c.numSpheres - 1
	return c
}

// Selected returns the index of the selected sphere, or -1 when the scene has none
func (c *Controller) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SelectNext cycles the selection through all spheres
func (c *Controller) SelectNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.numSpheres > 0 {
		c.selected = (c.selected + 1) % c.numSpheres
	}
}

// MoveSelected queues a translation of the selected sphere
func (c *Controller) MoveSelected(offset core.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.selected
	if index < 0 {
		return
	}
	c.pending = append(c.pending, func(s *scene.Scene) {
		if spheres := s.Spheres(); index < len(spheres) {
			spheres[index].Translate(offset)
		}
	})
}

// ChangeSamples queues a change of samples per pixel, never going below one
func (c *Controller) ChangeSamples(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, func(s *scene.Scene) {
		s.CameraConfig.SamplesPerPixel = max(1, s.CameraConfig.SamplesPerPixel+delta)
	})
}

// Frame returns the latest completed frame, or nil before the first pass
func (c *Controller) Frame() *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Step applies queued edits and renders a new frame if the scene is dirty.
// It reports whether a frame was published.
func (c *Controller) Step(ctx context.Context) (bool, error) {
	c.mu.Lock()
	edits := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, edit := range edits {
		c.handle.Update(edit)
	}

	var frame *Frame
	rendered, err := c.handle.RenderIfDirty(func(s *scene.Scene) error {
		pixels, err := s.NewBuffer()
		if err != nil {
			return err
		}
		stats, err := s.Render(ctx, c.renderer, pixels)
		if err != nil {
			return err
		}
		width, height := s.Size()
		frame = &Frame{Pixels: pixels, Width: width, Height: height, Stats: stats}
		return nil
	})
	if err != nil || frame == nil {
		return false, err
	}

	c.mu.Lock()
	c.passes++
	frame.Pass = c.passes
	c.frame = frame
	c.mu.Unlock()

	c.logger.Debugf("pass %d rendered in %v", frame.Pass, frame.Stats.Duration)
	return rendered, nil
}

// Run calls Step every interval until ctx is cancelled. Render errors other
// than cancellation are logged and the loop keeps going.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.Step(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warningf("render failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
