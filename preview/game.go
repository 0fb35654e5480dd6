package main

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/preview"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// moveStep is the distance a key press moves the selected sphere
const moveStep = 0.1

type previewGame struct {
	controller *preview.Controller
	width      int
	height     int

	frameImg *ebiten.Image
	pix      []byte
	shown    int // pass number currently uploaded to frameImg
}

func newPreviewGame(controller *preview.Controller, width, height int) *previewGame {
	return &previewGame{controller: controller, width: width, height: height}
}

func (g *previewGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	moves := []struct {
		key    ebiten.Key
		offset core.Vec3
	}{
		{ebiten.KeyArrowLeft, core.NewVec3(-moveStep, 0, 0)},
		{ebiten.KeyArrowRight, core.NewVec3(moveStep, 0, 0)},
		{ebiten.KeyArrowUp, core.NewVec3(0, 0, -moveStep)},
		{ebiten.KeyArrowDown, core.NewVec3(0, 0, moveStep)},
		{ebiten.KeyPageUp, core.NewVec3(0, moveStep, 0)},
		{ebiten.KeyPageDown, core.NewVec3(0, -moveStep, 0)},
	}
	for _, m := range moves {
		if inpututil.IsKeyJustPressed(m.key) {
			g.controller.MoveSelected(m.offset)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.controller.SelectNext()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.controller.ChangeSamples(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.controller.ChangeSamples(-1)
	}

	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	frame := g.controller.Frame()
	if frame == nil {
		ebitenutil.DebugPrint(screen, "rendering...")
		return
	}

	if frame.Pass != g.shown {
		g.upload(frame)
	}
	screen.DrawImage(g.frameImg, nil)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("pass %d  %d spp  %v\nsphere %d  arrows/pgup/pgdn move  tab select  +/- spp",
		frame.Pass, frame.Stats.SamplesPerPixel, frame.Stats.Duration, g.controller.Selected()))
}

// upload copies a packed ARGB frame into the RGBA texture
func (g *previewGame) upload(frame *preview.Frame) {
	if g.frameImg == nil || g.frameImg.Bounds().Dx() != frame.Width || g.frameImg.Bounds().Dy() != frame.Height {
		if g.frameImg != nil {
			g.frameImg.Deallocate()
		}
		g.frameImg = ebiten.NewImage(frame.Width, frame.Height)
		g.pix = make([]byte, 4*frame.Width*frame.Height)
	}

	for i, p := range frame.Pixels {
		r, gg, b := renderer.UnpackRGB(p)
		g.pix[4*i+0] = r
		g.pix[4*i+1] = gg
		g.pix[4*i+2] = b
		g.pix[4*i+3] = renderer.Alpha(p)
	}

	g.frameImg.WritePixels(g.pix)
	g.shown = frame.Pass
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
