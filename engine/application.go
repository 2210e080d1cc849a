package engine

import (
	"github.com/spaghettifunk/depthsort/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logs.
	Name     string
	LogLevel core.LogLevel
	// Renderer configuration file. Defaults are used when it does not exist.
	ConfigPath string
	// Reload the configuration file while running.
	WatchConfig bool
	// Frames per second to aim for. Zero runs unthrottled.
	TargetFrameRate float64
	// Stop after this many frames. Zero runs until quit.
	MaxFrames uint64
}
