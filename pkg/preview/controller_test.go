package preview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func newTestController(t *testing.T) (*Controller, *scene.Handle) {
	t.Helper()
	s := scene.NewDefaultScene()
	s.CameraConfig.Width = 32
	s.CameraConfig.SamplesPerPixel = 1
	s.CameraConfig.MaxDepth = 3

	handle := scene.NewHandle(s)
	r := renderer.NewRenderer(renderer.Options{NumWorkers: 2, TileSize: 8, Seed: 1}, nil)
	return NewController(handle, r, log.New("preview-test")), handle
}

func TestController_FirstStepRenders(t *testing.T) {
	c, _ := newTestController(t)
	if c.Frame() != nil {
		t.Fatal("Expected no frame before the first step")
	}

	rendered, err := c.Step(context.Background())
	if err != nil || !rendered {
		t.Fatalf("Expected first step to render, got %v %v", rendered, err)
	}

	frame := c.Frame()
	if frame == nil || frame.Pass != 1 {
		t.Fatalf("Expected pass 1, got %+v", frame)
	}
	if frame.Width != 32 || frame.Height != 18 || len(frame.Pixels) != 32*18 {
		t.Errorf("Unexpected frame size %dx%d (%d pixels)", frame.Width, frame.Height, len(frame.Pixels))
	}

	if rendered, _ := c.Step(context.Background()); rendered {
		t.Error("Expected no render without edits")
	}
}

func TestController_MoveSelected(t *testing.T) {
	c, handle := newTestController(t)
	if c.Selected() != 1 {
		t.Fatalf("Expected the last sphere selected, got %d", c.Selected())
	}
	c.Step(context.Background())

	c.MoveSelected(core.NewVec3(0.5, 0, 0))
	c.MoveSelected(core.NewVec3(0, 0.25, 0))

	// Edits are queued until the next step
	var center core.Vec3
	handle.View(func(s *scene.Scene) { center = s.Spheres()[1].Center() })
	if center != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected queued edits not applied yet, got %v", center)
	}

	rendered, err := c.Step(context.Background())
	if err != nil || !rendered {
		t.Fatalf("Expected render after edits, got %v %v", rendered, err)
	}
	handle.View(func(s *scene.Scene) { center = s.Spheres()[1].Center() })
	if center != core.NewVec3(0.5, 1.25, 0) {
		t.Errorf("Expected center (0.5,1.25,0), got %v", center)
	}
	if c.Frame().Pass != 2 {
		t.Errorf("Expected pass 2, got %d", c.Frame().Pass)
	}
}

func TestController_SelectNextCycles(t *testing.T) {
	c, _ := newTestController(t)

	c.SelectNext()
	if c.Selected() != 0 {
		t.Errorf("Expected selection to wrap to 0, got %d", c.Selected())
	}
	c.SelectNext()
	if c.Selected() != 1 {
		t.Errorf("Expected selection 1, got %d", c.Selected())
	}
}

func TestController_ChangeSamples(t *testing.T) {
	c, handle := newTestController(t)

	c.ChangeSamples(3)
	c.Step(context.Background())
	if got := c.Frame().Stats.SamplesPerPixel; got != 4 {
		t.Errorf("Expected 4 spp, got %d", got)
	}

	c.ChangeSamples(-10)
	c.Step(context.Background())
	var spp int
	handle.View(func(s *scene.Scene) { spp = s.CameraConfig.SamplesPerPixel })
	if spp != 1 {
		t.Errorf("Expected samples clamped to 1, got %d", spp)
	}
}

func TestController_CancelledStepKeepsDirty(t *testing.T) {
	c, handle := newTestController(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if rendered, err := c.Step(ctx); rendered || err == nil {
		t.Fatalf("Expected cancelled step to fail, got %v %v", rendered, err)
	}
	if !handle.Dirty() {
		t.Error("Expected handle to stay dirty after a cancelled pass")
	}
	if c.Frame() != nil {
		t.Error("Expected no frame from a cancelled pass")
	}
}

func TestController_InvalidSceneFailsStep(t *testing.T) {
	s := scene.NewDefaultScene()
	s.CameraConfig.Width = -5
	handle := scene.NewHandle(s)
	c := NewController(handle, renderer.NewRenderer(renderer.Options{NumWorkers: 1}, nil), log.New("preview-test"))

	rendered, err := c.Step(context.Background())
	if rendered || !errors.Is(err, renderer.ErrInvalidWidth) {
		t.Fatalf("Expected ErrInvalidWidth, got %v %v", rendered, err)
	}
	if !handle.Dirty() {
		t.Error("Expected handle to stay dirty after a rejected pass")
	}
	if c.Frame() != nil {
		t.Error("Expected no frame from a rejected pass")
	}
}

func TestController_Run(t *testing.T) {
	c, _ := newTestController(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(10 * time.Second)
	for c.Frame() == nil {
		select {
		case <-deadline:
			t.Fatal("Timeout waiting for the first frame")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
