package metadata

import "github.com/spaghettifunk/depthsort/engine/math"

/**
 * @brief A snapshot of everything the device needs to replay a draw call:
 * pipeline mode, material, textures, transforms, lights and the bound
 * geometry buffers.
 */
type RenderState struct {
	Shader       ShaderMode
	Material     *Material
	Textures     [MaxTextureStages]*Texture
	World        math.Mat4
	View         math.Mat4
	Lights       [MaxLights]*Light
	VertexBuffer *VertexBuffer
	IndexBuffer  *IndexBuffer

	held bool
}

// IsSortable reports whether both bound buffers belong to the sortable class.
func (s *RenderState) IsSortable() bool {
	return s.VertexBuffer != nil && s.IndexBuffer != nil &&
		s.VertexBuffer.Class == BufferClassSortable &&
		s.IndexBuffer.Class == BufferClassSortable
}

// LightCount returns the length of the contiguous light prefix.
func (s *RenderState) LightCount() int {
	for i, l := range s.Lights {
		if l == nil {
			return i
		}
	}
	return MaxLights
}

// Resources calls fn for every non-nil resource referenced by the snapshot.
func (s *RenderState) Resources(fn func(Resource)) {
	if s.Material != nil {
		fn(s.Material)
	}
	for _, t := range s.Textures {
		if t != nil {
			fn(t)
		}
	}
	for _, l := range s.Lights {
		if l != nil {
			fn(l)
		}
	}
	if s.VertexBuffer != nil {
		fn(s.VertexBuffer)
	}
	if s.IndexBuffer != nil {
		fn(s.IndexBuffer)
	}
}

// Acquire takes one reference on every resource in the snapshot. It is a
// no-op on a snapshot that already holds its references.
func (s *RenderState) Acquire() {
	if s.held {
		return
	}
	s.Resources(func(r Resource) { r.AddRef() })
	s.held = true
}

// Release drops the references taken by Acquire exactly once and clears the
// snapshot so that it no longer points at the resources.
func (s *RenderState) Release() {
	if !s.held {
		return
	}
	s.Resources(func(r Resource) { r.Release() })
	*s = RenderState{}
}

// Held reports whether the snapshot currently owns references.
func (s *RenderState) Held() bool {
	return s.held
}

// Detached returns a copy of the snapshot that owns no references, suitable
// for handing to the device.
func (s *RenderState) Detached() RenderState {
	c := *s
	c.held = false
	return c
}
