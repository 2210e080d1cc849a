package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spaghettifunk/depthsort/engine/assets"
	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/renderer"
	"github.com/spaghettifunk/depthsort/engine/renderer/headless"
	"github.com/spaghettifunk/depthsort/engine/renderer/sorting"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	clock        *core.Clock
	lastTime     time.Duration
	frameCount   uint64

	events   *core.EventBus
	device   sorting.Device
	renderer *renderer.Renderer
	config   assets.RendererConfig
	watcher  *assets.ConfigWatcher
}

/**
 * @brief Creates the engine for g, drawing through device. A headless
 * device is used when device is nil.
 */
func New(g *Game, device sorting.Device) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game and its application config are required")
	}
	if device == nil {
		device = headless.New()
	}
	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		clock:        core.NewClock(),
		events:       core.NewEventBus(),
		device:       device,
		config:       assets.DefaultRendererConfig(),
	}

	core.SetLogLevel(g.ApplicationConfig.LogLevel)
	if path := g.ApplicationConfig.ConfigPath; path != "" {
		config, err := assets.LoadConfig(path)
		switch {
		case err == nil:
			e.config = config
			e.applyLogLevel(config.LogLevel)
		case errors.Is(err, fs.ErrNotExist):
			core.LogInfo("no renderer config at %s, using defaults", path)
		default:
			core.LogError(err.Error())
			return nil, err
		}
	}

	if g.FnBoot != nil {
		if err := g.FnBoot(); err != nil {
			core.LogError("game boot failed: %s", err)
			return nil, err
		}
	}
	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_SORT_CAPACITY_EXCEEDED, e, e.onEvent)

	r, err := renderer.New(e.device, e.config.Sorting, sorting.WithEventBus(e.events))
	if err != nil {
		return err
	}
	e.renderer = r

	app := e.gameInstance.ApplicationConfig
	if app.WatchConfig && app.ConfigPath != "" {
		w, err := assets.NewConfigWatcher(app.ConfigPath)
		if err != nil {
			core.LogWarn("config hot reload disabled: %s", err)
		} else {
			e.watcher = w
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	e.isRunning = true
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized, sorter %s", app.Name, r.Sorter().ID())
	return nil
}

// Run drives frames until the game quits, ctx is cancelled or the frame limit is hit.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine not initialized")
	}
	e.currentStage = EngineStageRunning

	app := e.gameInstance.ApplicationConfig
	var targetFrameTime time.Duration
	if app.TargetFrameRate > 0 {
		targetFrameTime = time.Duration(float64(time.Second) / app.TargetFrameRate)
	}

	e.clock.Start()
	e.lastTime = 0

	for e.isRunning {
		if ctx.Err() != nil {
			break
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := (currentTime - e.lastTime).Seconds()
		frameStart := time.Now()

		if err := e.frame(delta); err != nil {
			e.isRunning = false
			return err
		}
		e.applyReloadedConfig()

		e.frameCount++
		if app.MaxFrames > 0 && e.frameCount >= app.MaxFrames {
			e.isRunning = false
		}

		// If there is time left, give it back to the OS.
		if remaining := targetFrameTime - time.Since(frameStart); remaining > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(remaining):
			}
		}
		e.lastTime = currentTime
	}

	avg := e.renderer.Sorter().Metrics().Average()
	core.LogInfo("ran %d frames: avg %d draw calls, %d runs, %d triangles, flush %s",
		e.frameCount, avg.DrawCalls, avg.Runs, avg.Triangles, avg.Duration)
	return nil
}

func (e *Engine) frame(delta float64) error {
	if err := e.gameInstance.FnUpdate(delta); err != nil {
		core.LogError("Game update failed, shutting down: %s", err)
		return err
	}

	packet := &renderer.RenderPacket{DeltaTime: delta}
	if err := e.gameInstance.FnRender(packet, delta); err != nil {
		core.LogError("Game render failed, shutting down: %s", err)
		return err
	}
	return e.renderer.DrawFrame(packet)
}

// applyReloadedConfig applies a configuration posted by the watcher. Only
// the scratch floor and the log level can change while running.
func (e *Engine) applyReloadedConfig() {
	if e.watcher == nil {
		return
	}
	config, ok := e.watcher.Poll()
	if !ok {
		return
	}
	if e.applyLogLevel(config.LogLevel) {
		e.config.LogLevel = config.LogLevel
	}
	sorter := e.renderer.Sorter()
	if config.Sorting.MinVertexBufferSize != sorter.Config().MinVertexBufferSize {
		sorter.SetMinVertexBufferSize(config.Sorting.MinVertexBufferSize)
	}
	// Only the scratch floors follow the file; the rest of the sorter keeps
	// the settings it was created with.
	e.config.Sorting = sorter.Config()
	if config.Sorting != e.config.Sorting {
		core.LogInfo("renderer config reloaded; settings other than min_vertex_buffer_size apply on restart")
	}
	e.events.Fire(core.EVENT_CODE_CONFIG_RELOADED, e, core.EventContext{
		Source: e.watcher.Path(),
		Data:   e.config,
	})
}

func (e *Engine) applyLogLevel(name string) bool {
	level, err := core.ParseLogLevel(name)
	if err != nil {
		core.LogWarn("ignoring log level %q", name)
		return false
	}
	core.SetLogLevel(level)
	return true
}

// Quit asks the engine to stop after the current frame.
func (e *Engine) Quit() {
	e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
		e.watcher = nil
	}
	if e.renderer != nil {
		errs = append(errs, e.renderer.Shutdown())
	}
	errs = append(errs, e.events.Shutdown())
	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

// Config returns the renderer configuration currently in effect.
func (e *Engine) Config() assets.RendererConfig {
	return e.config
}

func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	case core.EVENT_CODE_SORT_CAPACITY_EXCEEDED:
		core.LogDebug("sorter %s dropped %d batches", data.Source, data.Count)
	}
	return false
}
