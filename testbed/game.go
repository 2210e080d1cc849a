package testbed

import (
	"fmt"
	m "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/depthsort/engine"
	"github.com/spaghettifunk/depthsort/engine/assets"
	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer"
	"github.com/spaghettifunk/depthsort/engine/renderer/components"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
	engine *engine.Engine
}

type gameState struct {
	WorldCamera *components.Camera
	orbitAngle  float64
	orbitRadius float32
	spin        float32

	meshes []*mesh
	sun    *metadata.Light
	fill   *metadata.Light

	dropped int
}

var orbitSpeed = 0.6

func NewTestGame(maxFrames uint64) (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:            "Depthsort Testbed",
				LogLevel:        core.InfoLevel,
				ConfigPath:      assets.DefaultConfigPath,
				WatchConfig:     true,
				TargetFrameRate: 60,
				MaxFrames:       maxFrames,
			},
			State: &gameState{
				orbitRadius: 12,
			},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	return nil
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")
	g.engine = e
	state := g.State.(*gameState)

	state.WorldCamera = components.NewCamera()
	state.WorldCamera.SetPosition(math.Vec3{0, 2, -state.orbitRadius})
	state.WorldCamera.LookAtPoint(math.Vec3{})

	state.sun = &metadata.Light{ID: 1, LightType: metadata.LightTypeDirectional, Direction: math.Vec3{0, -1, 1}, Colour: math.Vec4{1, 1, 0.9, 1}}
	state.fill = &metadata.Light{ID: 2, LightType: metadata.LightTypePoint, Position: math.Vec3{3, 3, 3}, Colour: math.Vec4{0.2, 0.3, 1, 1}, Range: 20}
	state.sun.AddRef()
	state.fill.AddRef()

	id := uint32(1)
	next := func() uint32 {
		id++
		return id
	}

	// Two crossing panes: their triangles interleave in depth from every angle.
	red, redIdx := quad(6, 4, math.Vec4{1, 0.2, 0.2, 0.5})
	paneA := newMesh(next(), "pane_a", metadata.BufferClassSortable, red, redIdx, 1)
	paneA.material.LightingEnabled = true
	blue, blueIdx := quad(6, 4, math.Vec4{0.2, 0.4, 1, 0.5})
	paneB := newMesh(next(), "pane_b", metadata.BufferClassSortable, blue, blueIdx, 1)
	paneB.world = mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	paneB.texture = &metadata.Texture{ID: 1, Name: "glass", HasTransparency: true, Width: 256, Height: 256}
	paneB.texture.AddRef()
	state.meshes = append(state.meshes, paneA, paneB)

	// A ring of smaller sprites.
	for i := 0; i < 8; i++ {
		angle := float64(i) * 2 * m.Pi / 8
		v, idx := quad(1.5, 1.5, math.Vec4{0.3, 1, 0.4, 0.4})
		sprite := newMesh(next(), fmt.Sprintf("sprite_%d", i), metadata.BufferClassSortable, v, idx, 1)
		sprite.world = math.Translate3D(float32(5*m.Cos(angle)), 0.5, float32(5*m.Sin(angle)))
		state.meshes = append(state.meshes, sprite)
	}

	// Volume smoke: layered quads submitted as one particle.
	smokeV, smokeIdx := layeredQuads(3, 0.25, 6, math.Vec4{0.7, 0.7, 0.7, 0.15})
	smoke := newMesh(next(), "smoke", metadata.BufferClassSortable, smokeV, smokeIdx, 6)
	smoke.world = math.Translate3D(0, 3, 0)
	state.meshes = append(state.meshes, smoke)

	// A window pane in a static buffer: drawn whole, ordered by its bounds only.
	glass, glassIdx := quad(10, 6, math.Vec4{0.9, 0.9, 1, 0.2})
	window := newMesh(next(), "window", metadata.BufferClassStatic, glass, glassIdx, 1)
	window.world = math.Translate3D(0, 0, 8)
	state.meshes = append(state.meshes, window)

	e.Events().Register(core.EVENT_CODE_SORT_CAPACITY_EXCEEDED, g, g.gameOnEvent)
	e.Events().Register(core.EVENT_CODE_CONFIG_RELOADED, g, g.gameOnEvent)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)

	state.orbitAngle += orbitSpeed * deltaTime
	pos := math.Vec3{
		state.orbitRadius * float32(m.Sin(state.orbitAngle)),
		2,
		-state.orbitRadius * float32(m.Cos(state.orbitAngle)),
	}
	state.WorldCamera.SetPosition(pos)
	state.WorldCamera.LookAtPoint(math.Vec3{})

	// Perform a small rotation on the crossing panes.
	state.spin += float32(0.5 * deltaTime)
	spin := mgl32.HomogRotate3DY(state.spin)
	state.meshes[0].world = spin
	state.meshes[1].world = spin.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))

	if frame := g.engine.FrameCount(); frame > 0 && frame%120 == 0 {
		st := g.engine.Renderer().Sorter().Stats()
		rot := state.WorldCamera.GetEulerRotation()
		core.LogInfo("frame %d: Pos=[%7.3f %7.3f %7.3f] Yaw=%6.1f draws=%d runs=%d triangles=%d flush=%s",
			frame, pos.X(), pos.Y(), pos.Z(), mgl32.RadToDeg(rot.Y()),
			st.DrawCalls, st.Runs, st.Triangles, st.Duration)
	}
	return nil
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)

	packet.DeltaTime = deltaTime
	packet.View = state.WorldCamera.GetView()
	packet.Submissions = packet.Submissions[:0]

	for _, mesh := range state.meshes {
		s := renderer.Submission{
			Shader:       metadata.TransparentShaderMode(),
			Material:     mesh.material,
			World:        mesh.world,
			VertexBuffer: mesh.vb,
			IndexBuffer:  mesh.ib,
			Sphere:       &mesh.sphere,
			PolygonCount: mesh.ib.Len() / 3,
			VertexCount:  mesh.vb.Len(),
		}
		if mesh.layers > 1 {
			s.Layers = mesh.layers
			s.PolygonCount /= int(mesh.layers)
			s.VertexCount /= int(mesh.layers)
		}
		s.Textures[0] = mesh.texture
		if mesh.material.LightingEnabled {
			s.Lights[0] = state.sun
			s.Lights[1] = state.fill
		}
		packet.Submissions = append(packet.Submissions, s)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	for _, mesh := range state.meshes {
		mesh.release()
	}
	state.meshes = nil
	state.sun.Release()
	state.fill.Release()
	if state.dropped > 0 {
		core.LogWarn("%d batches were dropped during the run", state.dropped)
	}
	return nil
}

func (g *TestGame) gameOnEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	state := g.State.(*gameState)
	switch code {
	case core.EVENT_CODE_SORT_CAPACITY_EXCEEDED:
		state.dropped += data.Count
	case core.EVENT_CODE_CONFIG_RELOADED:
		if config, ok := data.Data.(assets.RendererConfig); ok {
			core.LogInfo("config reloaded: min_vertex_buffer_size=%d log_level=%s",
				config.Sorting.MinVertexBufferSize, config.LogLevel)
		}
	}
	return false
}
