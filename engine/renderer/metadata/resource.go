package metadata

import "sync/atomic"

type ResourceType int

/** @brief Device resource types that can be captured in a render state. */
const (
	ResourceTypeMaterial ResourceType = iota
	ResourceTypeTexture
	ResourceTypeLight
	ResourceTypeVertexBuffer
	ResourceTypeIndexBuffer
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeTexture:
		return "texture"
	case ResourceTypeLight:
		return "light"
	case ResourceTypeVertexBuffer:
		return "vertex_buffer"
	case ResourceTypeIndexBuffer:
		return "index_buffer"
	}
	return "unknown"
}

/**
 * @brief A device object whose lifetime is governed by a reference count.
 * Whoever stores a Resource beyond the current call must hold a reference.
 */
type Resource interface {
	AddRef()
	Release()
	References() int32
	ResourceType() ResourceType
}

/**
 * @brief Embeddable reference counter. The zero value holds no references.
 */
type RefCount struct {
	count atomic.Int32
}

func (r *RefCount) AddRef() {
	r.count.Add(1)
}

// Release drops one reference. Releasing an object that holds none is ignored.
func (r *RefCount) Release() {
	for {
		c := r.count.Load()
		if c <= 0 {
			return
		}
		if r.count.CompareAndSwap(c, c-1) {
			return
		}
	}
}

func (r *RefCount) References() int32 {
	return r.count.Load()
}
