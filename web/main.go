package main

import (
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/log"
	"github.com/df07/go-weekend-raytracer/web/server"
	"github.com/urfave/cli"
)

var logger = log.New("web")

func main() {
	app := cli.NewApp()
	app.Name = "raytracer-web"
	app.Usage = "serve rendered scenes over http"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "port",
			Value: 8080,
			Usage: "port to serve on",
		},
		cli.StringFlag{
			Name:  "scenes",
			Value: "scenes",
			Usage: "directory with .json scene files",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "render workers per request (0 = number of CPUs)",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.Bool("v") {
			log.SetLevel(log.Info)
		}

		port := ctx.Int("port")
		logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", port)
		return server.NewServer(port, ctx.String("scenes"), ctx.Int("workers")).Start()
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("error starting server: %v", err)
		os.Exit(1)
	}
}
