package main

import (
	"context"
	"os"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/preview"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli"
)

var logger = log.New("preview")

func main() {
	app := cli.NewApp()
	app.Name = "raytracer-preview"
	app.Usage = "move spheres around and watch the scene re-render"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "scene, s",
			Value: "default",
			Usage: "built-in scene id or path to a .json scene file",
		},
		cli.IntFlag{
			Name:  "width",
			Value: 400,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 4,
			Usage: "initial samples per pixel",
		},
		cli.IntFlag{
			Name:  "scale",
			Value: 2,
			Usage: "window pixels per rendered pixel",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of render workers (0 = number of CPUs)",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.Bool("v") {
		log.SetLevel(log.Debug)
	}

	sc, err := scene.Create(ctx.String("scene"))
	if err != nil {
		return err
	}
	sc.CameraConfig.Width = ctx.Int("width")
	sc.CameraConfig.SamplesPerPixel = ctx.Int("spp")
	if err := renderer.ValidateConfig(sc.CameraConfig); err != nil {
		return err
	}
	width, height := sc.Size()

	options := renderer.DefaultOptions()
	options.NumWorkers = ctx.Int("workers")
	controller := preview.NewController(scene.NewHandle(sc), renderer.NewRenderer(options, logger), logger)

	renderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(renderCtx, 15*time.Millisecond)

	scale := max(1, ctx.Int("scale"))
	ebiten.SetWindowTitle("Raytracer preview: " + sc.Name)
	ebiten.SetWindowSize(width*scale, height*scale)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(newPreviewGame(controller, width, height)); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
