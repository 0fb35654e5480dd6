package main

import (
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "render sphere scenes with a Monte Carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene or a .json scene file and save it as PNG or PPM.
Flags that are not set keep the scene's own camera settings.

The output defaults to output/<scene>/render_<timestamp>.png.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene id or path to a .json scene file",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width; height follows the aspect ratio",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum bounce depth",
				},
				cli.Float64Flag{
					Name:  "vfov",
					Usage: "vertical field of view in degrees",
				},
				cli.Float64Flag{
					Name:  "defocus-angle",
					Usage: "defocus cone angle in degrees (0 = pinhole)",
				},
				cli.Float64Flag{
					Name:  "focus-dist",
					Usage: "focus distance (<= 0 = distance to the look-at point)",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (0 = number of CPUs)",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 32,
					Usage: "edge length of render tiles in pixels",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "base random seed",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output image (.png or .ppm)",
				},
			},
			Action: renderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes and scene files",
			Action: listScenes,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory with .json scene files",
				},
			},
		},
		{
			Name:      "export-scene",
			Usage:     "write a scene as json",
			ArgsUsage: "scene output.json",
			Action:    exportScene,
		},
		{
			Name:  "serve",
			Usage: "run the web server",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "port to serve on",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory with .json scene files",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "render workers per request (0 = number of CPUs)",
				},
			},
			Action: serve,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
