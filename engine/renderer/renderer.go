package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
	"github.com/spaghettifunk/depthsort/engine/renderer/sorting"
)

/**
 * @brief One translucent draw handed to the renderer: the state to bind and
 * the range of the bound buffers to draw.
 */
type Submission struct {
	Shader       metadata.ShaderMode
	Material     *metadata.Material
	Textures     [metadata.MaxTextureStages]*metadata.Texture
	Lights       [metadata.MaxLights]*metadata.Light
	World        math.Mat4
	VertexBuffer *metadata.VertexBuffer
	IndexBuffer  *metadata.IndexBuffer
	/** @brief Optional object-space bounds. Derived from the vertices when nil. */
	Sphere *math.Sphere

	StartIndex     int
	PolygonCount   int
	MinVertexIndex int
	VertexCount    int
	/** @brief Number of volume particle layers. Zero or one submits plain triangles. */
	Layers uint32
}

/** @brief Everything needed to render one frame. */
type RenderPacket struct {
	DeltaTime   float64
	View        math.Mat4
	Submissions []Submission
}

// frameRecorder is implemented by devices that keep a log of the calls they
// receive. The log is cleared at the start of every frame.
type frameRecorder interface {
	Reset()
}

type Renderer struct {
	device      sorting.Device
	sorter      *sorting.Sorter
	FrameNumber uint64
}

func New(device sorting.Device, config sorting.Config, opts ...sorting.Option) (*Renderer, error) {
	sorter, err := sorting.New(device, config, opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		device: device,
		sorter: sorter,
	}, nil
}

func (r *Renderer) Sorter() *sorting.Sorter {
	return r.sorter
}

func (r *Renderer) Device() sorting.Device {
	return r.device
}

func (r *Renderer) Shutdown() error {
	return r.sorter.Deinit()
}

func (r *Renderer) BeginFrame(deltaTime float64) error {
	r.FrameNumber++
	if rec, ok := r.device.(frameRecorder); ok {
		rec.Reset()
	}
	return nil
}

// EndFrame draws every translucent batch deferred during the frame.
func (r *Renderer) EndFrame(deltaTime float64) error {
	return r.sorter.Flush()
}

/**
 * @brief Binds and submits every draw of the packet, then flushes the
 * sorter. A rejected submission is logged and skipped; the frame goes on.
 */
func (r *Renderer) DrawFrame(packet *RenderPacket) error {
	if err := r.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}

	r.device.SetTransform(metadata.TransformView, packet.View)
	var rejected []error
	for i := range packet.Submissions {
		if err := r.submit(&packet.Submissions[i]); err != nil {
			rejected = append(rejected, fmt.Errorf("submission %d: %w", i, err))
		}
	}
	if len(rejected) > 0 {
		core.LogWarn("frame %d: %d submissions rejected: %s", r.FrameNumber, len(rejected), errors.Join(rejected...))
	}

	if err := r.EndFrame(packet.DeltaTime); err != nil {
		if errors.Is(err, core.ErrCapacityExceeded) {
			core.LogWarn("frame %d: %s", r.FrameNumber, err)
			return nil
		}
		core.LogError("RendererEndFrame failed: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) submit(s *Submission) error {
	d := r.device
	d.SetShader(s.Shader)
	d.SetMaterial(s.Material)
	for i := 0; i < min(d.MaxTextureStages(), metadata.MaxTextureStages); i++ {
		d.SetTexture(i, s.Textures[i])
	}
	for i := 0; i < metadata.MaxLights; i++ {
		d.SetLight(i, s.Lights[i])
		if s.Lights[i] == nil {
			break
		}
	}
	d.SetTransform(metadata.TransformWorld, s.World)
	d.SetBuffers(s.VertexBuffer, s.IndexBuffer)

	if s.Layers > 1 {
		return r.sorter.InsertVolumeParticle(s.Sphere, s.StartIndex, s.PolygonCount, s.MinVertexIndex, s.VertexCount, int(s.Layers))
	}
	return r.sorter.InsertTriangles(s.Sphere, s.StartIndex, s.PolygonCount, s.MinVertexIndex, s.VertexCount)
}
