package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"math"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// shapeList is a minimal closest-hit aggregate for tests
type shapeList []core.Shape

func (l shapeList) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	for _, s := range l {
		if hit, ok := s.Hit(ray, rayT); ok {
			closest = hit
			rayT.Max = hit.T
		}
	}
	return closest, closest != nil
}

// MockIntegrator returns a fixed color for every ray
type MockIntegrator struct {
	returnColor core.Vec3
}

func (m *MockIntegrator) RayColor(ray core.Ray, world core.Shape, random *rand.Rand) core.Vec3 {
	return m.returnColor
}

func testWorld() shapeList {
	return shapeList{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.8, 0.2, 0.2))),
	}
}

func testConfig(width int) CameraConfig {
	return CameraConfig{
		AspectRatio:     16.0 / 9.0,
		Width:           width,
		VFov:            20,
		SamplesPerPixel: 4,
		MaxDepth:        10,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 1, 0),
		VUp:             core.NewVec3(0, 1, 0),
		FocusDist:       10,
	}
}

func quietRenderer(options Options) *Renderer {
	return NewRenderer(options, log.New("renderer-test"))
}

func TestValidate(t *testing.T) {
	valid := testConfig(32)
	height := valid.ImageHeight()

	tests := []struct {
		name     string
		mutate   func(c *CameraConfig)
		width    int
		height   int
		pixels   int
		expected error
	}{
		{"valid", func(c *CameraConfig) {}, 32, height, 32 * height, nil},
		{"zero width", func(c *CameraConfig) {}, 0, 1, 0, ErrInvalidWidth},
		{"zero samples", func(c *CameraConfig) { c.SamplesPerPixel = 0 }, 32, height, 32 * height, ErrInvalidSamples},
		{"negative samples", func(c *CameraConfig) { c.SamplesPerPixel = -3 }, 32, height, 32 * height, ErrInvalidSamples},
		{"negative depth", func(c *CameraConfig) { c.MaxDepth = -1 }, 32, height, 32 * height, ErrInvalidDepth},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }, 32, height, 32 * height, ErrInvalidAspectRatio},
		{"height mismatch", func(c *CameraConfig) {}, 32, height + 1, 32 * (height + 1), ErrHeightMismatch},
		{"short buffer", func(c *CameraConfig) {}, 32, height, 32*height - 1, ErrBufferSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := Validate(config, make([]uint32, tt.pixels), tt.width, tt.height)
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *CameraConfig)
		expected error
	}{
		{"valid", func(c *CameraConfig) {}, nil},
		{"negative width", func(c *CameraConfig) { c.Width = -5 }, ErrInvalidWidth},
		{"NaN aspect", func(c *CameraConfig) { c.AspectRatio = math.NaN() }, ErrInvalidAspectRatio},
		{"infinite aspect", func(c *CameraConfig) { c.AspectRatio = math.Inf(1) }, ErrInvalidAspectRatio},
		{"zero samples", func(c *CameraConfig) { c.SamplesPerPixel = 0 }, ErrInvalidSamples},
		{"negative depth", func(c *CameraConfig) { c.MaxDepth = -1 }, ErrInvalidDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig(32)
			tt.mutate(&config)
			err := ValidateConfig(config)
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestRender_RejectsInvalidRequestWithoutWriting(t *testing.T) {
	config := testConfig(16)
	config.SamplesPerPixel = 0
	height := config.ImageHeight()
	pixels := make([]uint32, 16*height)
	for i := range pixels {
		pixels[i] = 0x12345678
	}

	err := Render(context.Background(), testWorld(), config, pixels, 16, height)
	if !errors.Is(err, ErrInvalidSamples) {
		t.Fatalf("Expected ErrInvalidSamples, got %v", err)
	}
	for i, p := range pixels {
		if p != 0x12345678 {
			t.Fatalf("Pixel %d was modified by a rejected render", i)
		}
	}
}

func TestRender_OverwritesEveryPixel(t *testing.T) {
	config := testConfig(40)
	config.SamplesPerPixel = 1
	height := config.ImageHeight()
	pixels := make([]uint32, 40*height)

	if _, err := quietRenderer(Options{TileSize: 7, Seed: 1}).Render(context.Background(), testWorld(), config, pixels, 40, height); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i, p := range pixels {
		if Alpha(p) != 0xFF {
			t.Fatalf("Pixel %d is not opaque: %#08x", i, p)
		}
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	config := testConfig(48)
	height := config.ImageHeight()
	world := testWorld()

	render := func(workers int) []uint32 {
		pixels := make([]uint32, 48*height)
		_, err := quietRenderer(Options{NumWorkers: workers, TileSize: 8, Seed: 42}).
			Render(context.Background(), world, config, pixels, 48, height)
		if err != nil {
			t.Fatalf("Render with %d workers failed: %v", workers, err)
		}
		return pixels
	}

	single := render(1)
	parallel := render(4)
	again := render(3)
	for i := range single {
		if single[i] != parallel[i] || single[i] != again[i] {
			t.Fatalf("Pixel %d differs between worker counts: %#08x %#08x %#08x", i, single[i], parallel[i], again[i])
		}
	}
}

func TestRender_SeedChangesNoise(t *testing.T) {
	config := testConfig(32)
	height := config.ImageHeight()
	world := testWorld()

	a := make([]uint32, 32*height)
	b := make([]uint32, 32*height)
	if _, err := quietRenderer(Options{Seed: 1}).Render(context.Background(), world, config, a, 32, height); err != nil {
		t.Fatal(err)
	}
	if _, err := quietRenderer(Options{Seed: 2}).Render(context.Background(), world, config, b, 32, height); err != nil {
		t.Fatal(err)
	}

	differ := 0
	for i := range a {
		if a[i] != b[i] {
			differ++
		}
	}
	if differ == 0 {
		t.Error("Expected different seeds to produce different noise")
	}
}

func TestRender_ZeroDepthIsBlack(t *testing.T) {
	config := testConfig(16)
	config.MaxDepth = 0
	height := config.ImageHeight()
	pixels := make([]uint32, 16*height)

	if _, err := quietRenderer(DefaultOptions()).Render(context.Background(), testWorld(), config, pixels, 16, height); err != nil {
		t.Fatal(err)
	}
	for i, p := range pixels {
		if p != OpaqueAlpha {
			t.Fatalf("Pixel %d: expected opaque black, got %#08x", i, p)
		}
	}
}

func TestRender_EmptyWorldIsSky(t *testing.T) {
	config := testConfig(16)
	height := config.ImageHeight()
	pixels := make([]uint32, 16*height)

	if _, err := quietRenderer(DefaultOptions()).Render(context.Background(), shapeList{}, config, pixels, 16, height); err != nil {
		t.Fatal(err)
	}
	for i, p := range pixels {
		r, g, b := UnpackRGB(p)
		// Sky blends white into (0.5, 0.7, 1.0): blue stays saturated and red is the weakest channel
		if b != 255 || r > g || g > b {
			t.Fatalf("Pixel %d: expected sky gradient color, got (%d,%d,%d)", i, r, g, b)
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	config := testConfig(64)
	height := config.ImageHeight()
	pixels := make([]uint32, 64*height)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := quietRenderer(Options{NumWorkers: 2, TileSize: 16}).Render(ctx, testWorld(), config, pixels, 64, height)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Expected ErrInterrupted, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected error to wrap context.Canceled, got %v", err)
	}
	if stats.TotalSamples != 0 {
		t.Errorf("Expected no samples after cancellation before start, got %d", stats.TotalSamples)
	}
}

func TestRender_Stats(t *testing.T) {
	config := testConfig(40)
	config.SamplesPerPixel = 3
	height := config.ImageHeight()
	pixels := make([]uint32, 40*height)

	stats, err := quietRenderer(Options{NumWorkers: 2, TileSize: 16}).Render(context.Background(), testWorld(), config, pixels, 40, height)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Width != 40 || stats.Height != height {
		t.Errorf("Expected %dx%d, got %dx%d", 40, height, stats.Width, stats.Height)
	}
	if stats.TotalSamples != int64(40*height*3) {
		t.Errorf("Expected %d samples, got %d", 40*height*3, stats.TotalSamples)
	}
	if stats.AverageSamples() != 3 {
		t.Errorf("Expected average of 3 samples, got %f", stats.AverageSamples())
	}
	if len(stats.WorkerStats) != 2 {
		t.Fatalf("Expected 2 worker stats, got %d", len(stats.WorkerStats))
	}

	tiles, pixelsDone := 0, 0
	for _, ws := range stats.WorkerStats {
		tiles += ws.Tiles
		pixelsDone += ws.Pixels
	}
	if tiles != stats.Tiles || pixelsDone != stats.TotalPixels() {
		t.Errorf("Worker stats do not add up: %d tiles, %d pixels", tiles, pixelsDone)
	}
}

func TestRenderStats_WriteTable(t *testing.T) {
	stats := RenderStats{
		Width:           4,
		Height:          2,
		Tiles:           1,
		Workers:         1,
		SamplesPerPixel: 2,
		TotalSamples:    16,
		WorkerStats:     []WorkerStat{{ID: 0, Tiles: 1, Pixels: 8, Samples: 16}},
	}

	var buf bytes.Buffer
	stats.WriteTable(&buf)
	out := buf.String()
	for _, want := range []string{"Worker", "Busy time", "100.0 %", "4x2", "2 spp"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTileRenderer_UsesIntegrator(t *testing.T) {
	camera := NewCamera(simpleCameraConfig())
	tr := NewTileRenderer(camera, shapeList{}, &MockIntegrator{returnColor: core.NewVec3(0.25, 1, 0)}, 4)

	pixels := make([]uint32, 9)
	stats, err := tr.RenderTileBounds(context.Background(), image.Rect(1, 1, 3, 3), pixels, 3, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pixels != 4 || stats.Samples != 16 {
		t.Errorf("Expected 4 pixels and 16 samples, got %+v", stats)
	}

	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			p := pixels[j*3+i]
			inside := i >= 1 && j >= 1
			if inside && p != 0xFF80FF00 {
				t.Errorf("Pixel (%d,%d): expected %#08x, got %#08x", i, j, uint32(0xFF80FF00), p)
			}
			if !inside && p != 0 {
				t.Errorf("Pixel (%d,%d) outside the tile was written", i, j)
			}
		}
	}
}

var _ integrator.Integrator = (*MockIntegrator)(nil)

func TestMain(m *testing.M) {
	log.SetLevel(log.Warning)
	os.Exit(m.Run())
}
