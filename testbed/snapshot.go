package testbed

import (
	"fmt"
	"image/color"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/renderer/headless"
)

var (
	snapshotWidth  = 640
	snapshotHeight = 360
	fieldOfView    = mgl32.DegToRad(60)
	clearColour    = color.RGBA{R: 16, G: 16, B: 24, A: 255}
)

// WriteSnapshot rasterizes the last frame recorded by dev and writes it to
// path as a PNG.
func WriteSnapshot(dev *headless.Device, path string) error {
	img, err := dev.Rasterize(snapshotWidth, snapshotHeight, fieldOfView, clearColour)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	core.LogInfo("wrote %d triangles to %s", dev.TriangleCount(), path)
	return nil
}
