package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer"
	"github.com/spaghettifunk/depthsort/engine/renderer/headless"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
	"github.com/spaghettifunk/depthsort/engine/renderer/sorting"
)

func newQuadGame(maxFrames uint64) (*Game, *int) {
	vertices := []math.Vertex3D{
		{Position: math.Vec3{0, 0, 1}},
		{Position: math.Vec3{1, 0, 1}},
		{Position: math.Vec3{1, 1, 1}},
	}
	vb := metadata.NewVertexBufferFrom(1, metadata.BufferClassSortable, vertices)
	ib := metadata.NewIndexBufferFrom(1, metadata.BufferClassSortable, []uint32{0, 1, 2})
	updates := 0
	g := &Game{
		ApplicationConfig: &ApplicationConfig{
			Name:      "test",
			LogLevel:  core.WarnLevel,
			MaxFrames: maxFrames,
		},
		FnUpdate: func(deltaTime float64) error {
			updates++
			return nil
		},
		FnRender: func(packet *renderer.RenderPacket, deltaTime float64) error {
			packet.View = math.Ident4()
			packet.Submissions = append(packet.Submissions, renderer.Submission{
				World:        math.Ident4(),
				Material:     &metadata.Material{ID: 1},
				VertexBuffer: vb,
				IndexBuffer:  ib,
				PolygonCount: 1,
				VertexCount:  3,
			})
			return nil
		},
	}
	return g, &updates
}

func TestEngineRunsFrames(t *testing.T) {
	g, updates := newQuadGame(3)
	dev := headless.New()
	e, err := New(g, dev)
	if err != nil {
		t.Fatal(err)
	}
	if e.Stage() != EngineStageBootComplete {
		t.Errorf("Stage() = %d after New", e.Stage())
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if *updates != 3 || e.FrameCount() != 3 {
		t.Errorf("updates = %d, frames = %d, want 3", *updates, e.FrameCount())
	}
	// The recording device only keeps the last frame.
	if len(dev.Draws) != 1 || dev.TriangleCount() != 1 {
		t.Errorf("device kept %d draws, %d triangles", len(dev.Draws), dev.TriangleCount())
	}
	if st := e.Renderer().Sorter().Metrics().Frames(); st != 3 {
		t.Errorf("metrics saw %d frames, want 3", st)
	}
	if err := e.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if e.Stage() != EngineStageUninitialized {
		t.Errorf("Stage() = %d after Shutdown", e.Stage())
	}
}

func TestEngineQuitEvent(t *testing.T) {
	g, _ := newQuadGame(0)
	var e *Engine
	frames := 0
	g.FnUpdate = func(deltaTime float64) error {
		frames++
		if frames == 2 {
			e.Quit()
		}
		return nil
	}
	e, err := New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", e.FrameCount())
	}
	e.Shutdown()
}

func TestEngineStopsOnUpdateError(t *testing.T) {
	g, _ := newQuadGame(0)
	boom := errors.New("boom")
	g.FnUpdate = func(deltaTime float64) error { return boom }
	e, err := New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
	e.Shutdown()
}

func TestEngineStopsOnCancelledContext(t *testing.T) {
	g, updates := newQuadGame(0)
	e, err := New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if *updates != 0 {
		t.Errorf("ran %d frames with a cancelled context", *updates)
	}
	e.Shutdown()
}

func TestEngineConfigFile(t *testing.T) {
	dir := t.TempDir()

	g, _ := newQuadGame(1)
	g.ApplicationConfig.ConfigPath = filepath.Join(dir, "missing.toml")
	e, err := New(g, nil)
	if err != nil {
		t.Fatalf("missing config should fall back to defaults: %v", err)
	}
	if e.Config().Sorting.MaxOverlapNodes != 256 {
		t.Errorf("Config() = %+v", e.Config())
	}

	path := filepath.Join(dir, "renderer.toml")
	if err := os.WriteFile(path, []byte("log_level = \"warn\"\n[sorting]\nmax_overlap_nodes = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g.ApplicationConfig.ConfigPath = path
	e, err = New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Config().Sorting.MaxOverlapNodes != 3 {
		t.Errorf("MaxOverlapNodes = %d, want 3", e.Config().Sorting.MaxOverlapNodes)
	}

	if err := os.WriteFile(path, []byte("[sorting]\nmax_overlap_nodes = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(g, nil); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("New() with invalid config error = %v", err)
	}
}

func TestEngineReloadKeepsRunningSorterSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	if err := os.WriteFile(path, []byte("log_level = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, _ := newQuadGame(1)
	g.ApplicationConfig.ConfigPath = path
	g.ApplicationConfig.WatchConfig = true
	e, err := New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	reloaded := 0
	e.Events().Register(core.EVENT_CODE_CONFIG_RELOADED, t, func(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
		reloaded++
		return false
	})

	changed := "log_level = \"warn\"\n[sorting]\nmin_vertex_buffer_size = 8192\nmax_overlap_nodes = 3\noverflow_policy = \"partial\"\n"
	if err := os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for e.Config().Sorting.MinVertexBufferSize != 8192 {
		if time.Now().After(deadline) {
			t.Fatal("reloaded config not applied within 5s")
		}
		time.Sleep(10 * time.Millisecond)
		e.applyReloadedConfig()
	}

	running := e.Renderer().Sorter().Config()
	if e.Config().Sorting != running {
		t.Errorf("Config().Sorting = %+v, running sorter has %+v", e.Config().Sorting, running)
	}
	want := sorting.DefaultConfig()
	if running.MaxOverlapNodes != want.MaxOverlapNodes || running.Overflow != want.Overflow {
		t.Errorf("settings that need a restart changed live: %+v", running)
	}
	if running.MinPolygonCount != 4096 {
		t.Errorf("MinPolygonCount = %d, want the floor rescaled to 4096", running.MinPolygonCount)
	}
	if reloaded == 0 {
		t.Error("no reload event fired")
	}
}
