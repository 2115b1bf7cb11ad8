// Command waypoint-replay lays the pricing catalog out headlessly, replays
// a scroll script against it and prints every inview crossing.
//
//	waypoint-replay --height 4 3 +10 top
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/logging"
	"github.com/urfave/cli"
)

func main() {
	app := cli.App{
		Name:      "waypoint-replay",
		HelpName:  "waypoint-replay",
		Usage:     "replay a scroll script against the pricing page",
		UsageText: "waypoint-replay [options] STEP...",
		Description: `Steps are applied in order, separated by spaces or commas:

   12       scroll to line 12
   +3, -3   scroll relative
   top      scroll to the top
   bottom   scroll to the bottom
   100x30   resize the viewport`,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "catalog, c",
				Usage:  "catalog file",
				Value:  "catalog.yaml",
				EnvVar: "WAYPOINTS_CATALOG",
			},
			cli.IntFlag{
				Name:  "width",
				Usage: "viewport width in cells",
				Value: 80,
			},
			cli.IntFlag{
				Name:  "height",
				Usage: "viewport height in lines",
				Value: 24,
			},
			cli.IntFlag{
				Name:  "interval",
				Usage: "frame interval in milliseconds",
				Value: 16,
			},
			cli.BoolFlag{
				Name:  "touch",
				Usage: "disable scroll throttling",
			},
			cli.StringFlag{
				Name:  "log",
				Usage: "write a JSON log to this file",
			},
			cli.BoolFlag{
				Name:  "debug",
				Usage: "log every watcher and flush",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "waypoint-replay: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	steps, err := parseScript(ctx.Args())
	if err != nil {
		return err
	}
	catalog, err := estimate.LoadCatalog(ctx.String("catalog"))
	if err != nil {
		return err
	}
	log, err := logging.New(ctx.String("log"), ctx.Bool("debug"))
	if err != nil {
		return err
	}
	defer log.Sync()

	r, err := newReplayer(catalog, replayOptions{
		width:    ctx.Int("width"),
		height:   ctx.Int("height"),
		touch:    ctx.Bool("touch"),
		interval: ctx.Int("interval"),
		log:      log,
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return r.run(sigCtx, steps, os.Stdout)
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
