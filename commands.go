package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/export"
	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
	"github.com/df07/go-weekend-raytracer/web/server"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var logger = log.New("raytracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// applyCameraFlags overrides config with every camera flag set on the command line
func applyCameraFlags(ctx *cli.Context, config renderer.CameraConfig) renderer.CameraConfig {
	if ctx.IsSet("width") {
		config.Width = ctx.Int("width")
	}
	if ctx.IsSet("spp") {
		config.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		config.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("vfov") {
		config.VFov = ctx.Float64("vfov")
	}
	if ctx.IsSet("defocus-angle") {
		config.DefocusAngle = ctx.Float64("defocus-angle")
	}
	if ctx.IsSet("focus-dist") {
		config.FocusDist = ctx.Float64("focus-dist")
	}
	return config
}

// sceneBaseName returns a directory-safe name for a scene id or scene file path
func sceneBaseName(sceneName string) string {
	if strings.EqualFold(filepath.Ext(sceneName), ".json") {
		return strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	}
	return sceneName
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneBaseName(sceneName), fmt.Sprintf("render_%s.png", timestamp))
}

// Render a still frame.
func renderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.String("scene")
	sc, err := scene.Create(sceneName)
	if err != nil {
		return err
	}

	config := applyCameraFlags(ctx, sc.CameraConfig)
	if err := renderer.ValidateConfig(config); err != nil {
		return err
	}
	width, height := config.Width, config.ImageHeight()

	options := renderer.Options{
		NumWorkers: ctx.Int("workers"),
		TileSize:   ctx.Int("tile-size"),
		Seed:       ctx.Int64("seed"),
	}

	// Ctrl-C stops the pass between rows
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering scene %q at %dx%d", sc.Name, width, height)
	pixels := make([]uint32, width*height)
	stats, err := renderer.NewRenderer(options, logger).Render(renderCtx, sc.World, config, pixels, width, height)
	if err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			logger.Warning("render interrupted; no image written")
		}
		return err
	}

	displayFrameStats(stats)

	out := ctx.String("out")
	if out == "" {
		out = defaultOutputPath(sceneName, time.Now())
	}
	if err := export.Save(out, pixels, width, height); err != nil {
		return err
	}

	logger.Noticef("render saved as %s", out)
	return nil
}

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	stats.WriteTable(&buf)
	logger.Noticef("frame statistics\n%s", buf.String())
}

// List built-in scenes and scene files.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	scenes := scene.ListScenes()
	files, err := scene.ListSceneFiles(ctx.String("dir"))
	if err != nil {
		return err
	}
	scenes = append(scenes, files...)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Type", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.DisplayName, info.Type, info.Description})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

// Write a scene as json.
func exportScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("expected scene and output file arguments")
	}

	sc, err := scene.Create(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	out := ctx.Args().Get(1)
	if err := scene.Save(out, sc); err != nil {
		return err
	}

	logger.Noticef("scene %q written to %s", sc.Name, out)
	return nil
}

// Run the web server.
func serve(ctx *cli.Context) error {
	setupLogging(ctx)
	return server.NewServer(ctx.Int("port"), ctx.String("dir"), ctx.Int("workers")).Start()
}
