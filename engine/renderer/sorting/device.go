package sorting

import (
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

/**
 * @brief The graphics device consumed by the sorter. Implementations own
 * buffer allocation, state application and draw issuance; the sorter only
 * decides what is drawn and in which order.
 *
 * Light contract: lights are enabled as a contiguous prefix starting at
 * slot 0. SetLight(i, nil) disables slot i and every slot after it, so the
 * sorter stops at the first empty slot. When the bound material disables
 * lighting the sorter issues no SetLight calls at all.
 */
type Device interface {
	// RenderState returns a snapshot of the currently bound state. The
	// snapshot holds no references.
	RenderState() metadata.RenderState
	// SetRenderState binds every field of state, transforms included.
	SetRenderState(state metadata.RenderState)

	Transform(kind metadata.TransformKind) math.Mat4
	SetTransform(kind metadata.TransformKind, m math.Mat4)

	SetShader(mode metadata.ShaderMode)
	SetMaterial(material *metadata.Material)
	SetTexture(stage int, texture *metadata.Texture)
	SetLight(slot int, light *metadata.Light)
	SetBuffers(vb *metadata.VertexBuffer, ib *metadata.IndexBuffer)
	// MaxTextureStages is the number of texture stages the device exposes.
	MaxTextureStages() int

	AllocateDynamicVertexBuffer(count int) (*metadata.VertexBuffer, error)
	AllocateDynamicIndexBuffer(count int) (*metadata.IndexBuffer, error)

	// DrawTriangles draws triangleCount indexed triangles from the bound
	// buffers. Every index read must lie in [minVertexIndex, minVertexIndex+vertexCount).
	DrawTriangles(startIndex, triangleCount, minVertexIndex, vertexCount int) error

	// IsSortingEnabled is the global toggle. When false, Insert draws
	// straight away instead of deferring.
	IsSortingEnabled() bool
}
