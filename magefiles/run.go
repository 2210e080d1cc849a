//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed for FRAMES frames (600 by default) with the shipped config
// and writes the last frame to frame.png.
func (Run) Testbed() error {
	frames := os.Getenv("FRAMES")
	if frames == "" {
		frames = "600"
	}
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", "-frames", frames, "-config", "config/renderer.toml", "-snapshot", "frame.png"), withStream()); err != nil {
		return err
	}
	return nil
}
