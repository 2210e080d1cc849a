package testbed

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/depthsort/engine"
	"github.com/spaghettifunk/depthsort/engine/renderer/headless"
)

func TestTestbedRunsHeadless(t *testing.T) {
	tg, err := NewTestGame(5)
	if err != nil {
		t.Fatal(err)
	}
	tg.ApplicationConfig.ConfigPath = ""
	tg.ApplicationConfig.WatchConfig = false
	tg.ApplicationConfig.TargetFrameRate = 0

	dev := headless.New()
	e, err := engine.New(tg.Game, dev)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := e.Renderer().Sorter().Stats()
	if st.DroppedNodes != 0 || st.ImmediateNodes != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	// 2 panes, 8 sprites, 6 smoke layers and the window.
	if st.Triangles != 2*2+8*2+6*2 {
		t.Errorf("sorted %d triangles", st.Triangles)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WriteSnapshot(dev, path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != snapshotWidth || cfg.Height != snapshotHeight {
		t.Errorf("snapshot is %dx%d", cfg.Width, cfg.Height)
	}

	state := tg.State.(*gameState)
	meshes := state.meshes
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	for _, m := range meshes {
		if m.material.References() != 0 || m.vb.References() != 0 {
			t.Errorf("%s still referenced after shutdown", m.name)
		}
	}
}
