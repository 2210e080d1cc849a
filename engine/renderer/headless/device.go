package headless

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

// DrawCall is one recorded DrawTriangles invocation together with the state
// bound when it was issued.
type DrawCall struct {
	State          metadata.RenderState
	StartIndex     int
	TriangleCount  int
	MinVertexIndex int
	VertexCount    int
	// Triangles resolved through the bound index buffer.
	Triangles [][3]math.Vertex3D
	// Camera-space depth of each triangle centroid.
	Depths []float32
}

// LightCall records a SetLight invocation.
type LightCall struct {
	Slot  int
	Light *metadata.Light
}

// Device is a recording graphics device without a GPU behind it. It keeps
// the bound state in memory, validates every draw against the bound buffers
// and stores what it was asked to draw.
type Device struct {
	// SortingEnabled is reported through IsSortingEnabled.
	SortingEnabled bool
	// TextureStages is reported through MaxTextureStages.
	TextureStages int

	state  metadata.RenderState
	logger *log.Logger

	nextBufferID uint32

	Draws             []DrawCall
	LightCalls        []LightCall
	VertexAllocations int
	IndexAllocations  int
}

func New() *Device {
	d := &Device{
		SortingEnabled: true,
		TextureStages:  metadata.MaxTextureStages,
		logger:         core.Logger().With("device", "headless"),
		nextBufferID:   1 << 16,
	}
	d.state.World = math.Ident4()
	d.state.View = math.Ident4()
	return d
}

func (d *Device) RenderState() metadata.RenderState {
	return d.state.Detached()
}

func (d *Device) SetRenderState(state metadata.RenderState) {
	d.state = state.Detached()
}

func (d *Device) Transform(kind metadata.TransformKind) math.Mat4 {
	if kind == metadata.TransformView {
		return d.state.View
	}
	return d.state.World
}

func (d *Device) SetTransform(kind metadata.TransformKind, m math.Mat4) {
	switch kind {
	case metadata.TransformWorld:
		d.state.World = m
	case metadata.TransformView:
		d.state.View = m
	}
}

func (d *Device) SetShader(mode metadata.ShaderMode) {
	d.state.Shader = mode
}

func (d *Device) SetMaterial(material *metadata.Material) {
	d.state.Material = material
}

func (d *Device) SetTexture(stage int, texture *metadata.Texture) {
	if stage < 0 || stage >= d.TextureStages || stage >= metadata.MaxTextureStages {
		d.logger.Warn("texture stage out of range", "stage", stage)
		return
	}
	d.state.Textures[stage] = texture
}

// SetLight binds light to slot. A nil light disables slot and every slot
// after it.
func (d *Device) SetLight(slot int, light *metadata.Light) {
	d.LightCalls = append(d.LightCalls, LightCall{Slot: slot, Light: light})
	if slot < 0 || slot >= metadata.MaxLights {
		d.logger.Warn("light slot out of range", "slot", slot)
		return
	}
	if light == nil {
		for i := slot; i < metadata.MaxLights; i++ {
			d.state.Lights[i] = nil
		}
		return
	}
	d.state.Lights[slot] = light
}

func (d *Device) SetBuffers(vb *metadata.VertexBuffer, ib *metadata.IndexBuffer) {
	d.state.VertexBuffer = vb
	d.state.IndexBuffer = ib
}

func (d *Device) MaxTextureStages() int {
	return d.TextureStages
}

func (d *Device) AllocateDynamicVertexBuffer(count int) (*metadata.VertexBuffer, error) {
	if count < 1 {
		return nil, fmt.Errorf("vertex buffer of %d vertices: %w", count, core.ErrInvalidGeometry)
	}
	d.VertexAllocations++
	d.nextBufferID++
	d.logger.Debug("allocated dynamic vertex buffer", "vertices", count)
	return metadata.NewVertexBuffer(d.nextBufferID, metadata.BufferClassDynamic, count), nil
}

func (d *Device) AllocateDynamicIndexBuffer(count int) (*metadata.IndexBuffer, error) {
	if count < 1 {
		return nil, fmt.Errorf("index buffer of %d indices: %w", count, core.ErrInvalidGeometry)
	}
	d.IndexAllocations++
	d.nextBufferID++
	d.logger.Debug("allocated dynamic index buffer", "indices", count)
	return metadata.NewIndexBuffer(d.nextBufferID, metadata.BufferClassDynamic, count), nil
}

// DrawTriangles validates the call against the bound buffers and records it.
func (d *Device) DrawTriangles(startIndex, triangleCount, minVertexIndex, vertexCount int) error {
	vb, ib := d.state.VertexBuffer, d.state.IndexBuffer
	if vb == nil || ib == nil {
		return fmt.Errorf("draw without bound buffers: %w", core.ErrInvalidGeometry)
	}
	if vb.IsLocked() || ib.IsLocked() {
		return fmt.Errorf("draw from a locked buffer: %w", core.ErrBufferLocked)
	}
	if startIndex < 0 || triangleCount < 0 || startIndex > ib.Len() || triangleCount > (ib.Len()-startIndex)/3 {
		return fmt.Errorf("%d triangles from index %d outside %d indices: %w",
			triangleCount, startIndex, ib.Len(), core.ErrInvalidGeometry)
	}
	if minVertexIndex < 0 || vertexCount < 0 || minVertexIndex > vb.Len() || vertexCount > vb.Len()-minVertexIndex {
		return fmt.Errorf("%d vertices from vertex %d outside %d vertices: %w",
			vertexCount, minVertexIndex, vb.Len(), core.ErrInvalidGeometry)
	}

	zRow := math.ZRow(math.ModelView(d.state.World, d.state.View))
	vertices := vb.Vertices()
	indices := ib.Indices()[startIndex : startIndex+triangleCount*3]

	call := DrawCall{
		State:          d.state.Detached(),
		StartIndex:     startIndex,
		TriangleCount:  triangleCount,
		MinVertexIndex: minVertexIndex,
		VertexCount:    vertexCount,
		Triangles:      make([][3]math.Vertex3D, 0, triangleCount),
		Depths:         make([]float32, 0, triangleCount),
	}
	for t := 0; t < len(indices); t += 3 {
		var tri [3]math.Vertex3D
		var depth float32
		for k := 0; k < 3; k++ {
			idx := int(indices[t+k])
			if idx < minVertexIndex || idx >= minVertexIndex+vertexCount {
				return fmt.Errorf("index %d outside [%d, %d): %w",
					idx, minVertexIndex, minVertexIndex+vertexCount, core.ErrIndexOutOfRange)
			}
			tri[k] = vertices[idx]
			depth += math.ViewDepth(zRow, tri[k].Position)
		}
		call.Triangles = append(call.Triangles, tri)
		call.Depths = append(call.Depths, depth/3)
	}
	d.Draws = append(d.Draws, call)
	return nil
}

func (d *Device) IsSortingEnabled() bool {
	return d.SortingEnabled
}

// TriangleCount returns the number of triangles drawn since the last Reset.
func (d *Device) TriangleCount() int {
	n := 0
	for _, c := range d.Draws {
		n += len(c.Triangles)
	}
	return n
}

// Depths returns the centroid depth of every triangle drawn since the last
// Reset, in draw order.
func (d *Device) Depths() []float32 {
	var out []float32
	for _, c := range d.Draws {
		out = append(out, c.Depths...)
	}
	return out
}

// Reset forgets the recorded calls but keeps the bound state.
func (d *Device) Reset() {
	d.Draws = nil
	d.LightCalls = nil
}
