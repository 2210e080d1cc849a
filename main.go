/*
Headless testbed: drives the engine with a scene of crossing
translucent panes, sprites and volume smoke, printing sorter stats.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/depthsort/engine"
	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/renderer/headless"
	"github.com/spaghettifunk/depthsort/testbed"
)

func main() {
	frames := flag.Uint64("frames", 0, "stop after this many frames (0 runs until interrupted)")
	configPath := flag.String("config", "", "renderer config file (defaults to config/renderer.toml)")
	snapshot := flag.String("snapshot", "", "write the last frame to this PNG file")
	flag.Parse()

	tb, err := testbed.NewTestGame(*frames)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *configPath != "" {
		tb.ApplicationConfig.ConfigPath = *configPath
	}

	dev := headless.New()
	e, err := engine.New(tb.Game, dev)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// capture sigterm and other system calls to stop the frame loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	// run engine
	runErr := e.Run(ctx)
	if runErr == nil && *snapshot != "" {
		if err := testbed.WriteSnapshot(dev, *snapshot); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogError(runErr.Error())
		os.Exit(1)
	}
}
