package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// TileStats describes the work done for one tile
type TileStats struct {
	Pixels  int
	Samples int64
}

// TileRenderer renders individual tiles using an integrator.
// It only reads camera and world, so one instance is shared by all workers.
type TileRenderer struct {
	camera          *Camera
	world           core.Shape
	integrator      integrator.Integrator
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(camera *Camera, world core.Shape, integratorInst integrator.Integrator, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		camera:          camera,
		world:           world,
		integrator:      integratorInst,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTileBounds renders every pixel within bounds into pixels, a row-major
// buffer of the given width. The context is checked once per row.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, pixels []uint32, width int, random *rand.Rand) (TileStats, error) {
	var stats TileStats
	scale := 1.0 / float64(tr.samplesPerPixel)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}

		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			pixels[j*width+i] = PackColor(tr.samplePixel(i, j, random).Multiply(scale))
			stats.Pixels++
			stats.Samples += int64(tr.samplesPerPixel)
		}
	}

	return stats, nil
}

// samplePixel accumulates samplesPerPixel independent estimates for pixel (i, j)
func (tr *TileRenderer) samplePixel(i, j int, random *rand.Rand) core.Vec3 {
	colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
	for sample := 0; sample < tr.samplesPerPixel; sample++ {
		ray := tr.camera.GetRay(i, j, random)
		colorAccum = colorAccum.Add(tr.integrator.RayColor(ray, tr.world, random))
	}
	return colorAccum
}
