package metadata

import (
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
)

/**
 * @brief The class of a geometry buffer. Only sortable buffers take part in
 * the cross-batch merge and per-triangle re-sort; every other class is
 * drawn whole in submission order.
 */
type BufferClass uint8

const (
	BufferClassStatic BufferClass = iota
	BufferClassDynamic
	BufferClassSortable
)

func (c BufferClass) String() string {
	switch c {
	case BufferClassStatic:
		return "static"
	case BufferClassDynamic:
		return "dynamic"
	case BufferClassSortable:
		return "sortable"
	}
	return "unknown"
}

// VertexBuffer holds vertices in the device's vertex format.
type VertexBuffer struct {
	RefCount
	ID       uint32
	Class    BufferClass
	vertices []math.Vertex3D
	locked   bool
}

func NewVertexBuffer(id uint32, class BufferClass, count int) *VertexBuffer {
	return &VertexBuffer{
		ID:       id,
		Class:    class,
		vertices: make([]math.Vertex3D, count),
	}
}

// NewVertexBufferFrom wraps existing vertex data. The slice is not copied.
func NewVertexBufferFrom(id uint32, class BufferClass, vertices []math.Vertex3D) *VertexBuffer {
	return &VertexBuffer{ID: id, Class: class, vertices: vertices}
}

func (b *VertexBuffer) ResourceType() ResourceType {
	return ResourceTypeVertexBuffer
}

func (b *VertexBuffer) Len() int {
	return len(b.vertices)
}

// Vertices returns read access to the buffer contents.
func (b *VertexBuffer) Vertices() []math.Vertex3D {
	return b.vertices
}

// Lock opens a write scope over [offset, offset+count). The returned slice
// is only valid until Unlock.
func (b *VertexBuffer) Lock(offset, count int) ([]math.Vertex3D, error) {
	if b.locked {
		return nil, fmt.Errorf("vertex buffer %d: %w", b.ID, core.ErrBufferLocked)
	}
	if offset < 0 || count < 0 || offset+count > len(b.vertices) {
		return nil, fmt.Errorf("vertex buffer %d: lock [%d, %d) outside %d vertices: %w", b.ID, offset, offset+count, len(b.vertices), core.ErrInvalidGeometry)
	}
	b.locked = true
	return b.vertices[offset : offset+count : offset+count], nil
}

func (b *VertexBuffer) Unlock() {
	b.locked = false
}

func (b *VertexBuffer) IsLocked() bool {
	return b.locked
}

// IndexBuffer holds 32-bit triangle list indices.
type IndexBuffer struct {
	RefCount
	ID      uint32
	Class   BufferClass
	indices []uint32
	locked  bool
}

func NewIndexBuffer(id uint32, class BufferClass, count int) *IndexBuffer {
	return &IndexBuffer{
		ID:      id,
		Class:   class,
		indices: make([]uint32, count),
	}
}

// NewIndexBufferFrom wraps existing index data. The slice is not copied.
func NewIndexBufferFrom(id uint32, class BufferClass, indices []uint32) *IndexBuffer {
	return &IndexBuffer{ID: id, Class: class, indices: indices}
}

func (b *IndexBuffer) ResourceType() ResourceType {
	return ResourceTypeIndexBuffer
}

func (b *IndexBuffer) Len() int {
	return len(b.indices)
}

// Indices returns read access to the buffer contents.
func (b *IndexBuffer) Indices() []uint32 {
	return b.indices
}

// Lock opens a write scope over [offset, offset+count). The returned slice
// is only valid until Unlock.
func (b *IndexBuffer) Lock(offset, count int) ([]uint32, error) {
	if b.locked {
		return nil, fmt.Errorf("index buffer %d: %w", b.ID, core.ErrBufferLocked)
	}
	if offset < 0 || count < 0 || offset+count > len(b.indices) {
		return nil, fmt.Errorf("index buffer %d: lock [%d, %d) outside %d indices: %w", b.ID, offset, offset+count, len(b.indices), core.ErrInvalidGeometry)
	}
	b.locked = true
	return b.indices[offset : offset+count : offset+count], nil
}

func (b *IndexBuffer) Unlock() {
	b.locked = false
}

func (b *IndexBuffer) IsLocked() bool {
	return b.locked
}
