package engine

import (
	"github.com/spaghettifunk/depthsort/engine/renderer"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnBoot            Boot
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnShutdown        Shutdown
}

type Boot func() error
type Initialize func(e *Engine) error
type Update func(deltaTime float64) error
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type Shutdown func() error
