package sorting

import (
	"fmt"
	stdmath "math"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

/**
 * @brief Defers a range of indexed triangles drawn with the device's
 * currently bound state.
 *
 * @param sphere Object-space bounding sphere used for the batch depth. When
 * nil it is derived from the referenced vertex range.
 * @param startIndex First index in the bound index buffer.
 * @param polygonCount Number of triangles.
 * @param minVertexIndex Lowest vertex referenced by the range.
 * @param vertexCount Number of vertices from minVertexIndex on.
 */
func (s *Sorter) InsertTriangles(sphere *math.Sphere, startIndex, polygonCount, minVertexIndex, vertexCount int) error {
	return s.insert(sphere, startIndex, polygonCount, minVertexIndex, vertexCount)
}

/**
 * @brief Defers a volume particle batch. The bound buffers hold layerCount
 * consecutive copies of the particle geometry, so the recorded polygon and
 * vertex counts are multiplied by layerCount. Nothing is drawn here.
 */
func (s *Sorter) InsertVolumeParticle(sphere *math.Sphere, startIndex, polygonCount, minVertexIndex, vertexCount, layerCount int) error {
	if layerCount < 1 {
		err := fmt.Errorf("volume particle layer count must be >= 1, got %d: %w", layerCount, core.ErrInvalidGeometry)
		s.reject(err)
		return err
	}
	if polygonCount > 0 && vertexCount > 0 {
		if polygonCount > stdmath.MaxInt/layerCount || vertexCount > stdmath.MaxInt/layerCount {
			err := fmt.Errorf("%d layers of %d triangles and %d vertices overflow: %w",
				layerCount, polygonCount, vertexCount, core.ErrInvalidGeometry)
			s.reject(err)
			return err
		}
		polygonCount *= layerCount
		vertexCount *= layerCount
	}
	return s.insert(sphere, startIndex, polygonCount, minVertexIndex, vertexCount)
}

func (s *Sorter) insert(sphere *math.Sphere, startIndex, polygonCount, minVertexIndex, vertexCount int) error {
	if s.closed {
		return core.ErrSorterClosed
	}
	if s.flushing {
		return fmt.Errorf("insert during flush: %w", core.ErrReentrantFlush)
	}
	if !s.device.IsSortingEnabled() {
		return s.device.DrawTriangles(startIndex, polygonCount, minVertexIndex, vertexCount)
	}

	state := s.device.RenderState()
	if err := s.validate(&state, startIndex, polygonCount, minVertexIndex, vertexCount); err != nil {
		s.reject(err)
		return err
	}

	var bounds math.Sphere
	if sphere != nil {
		bounds = *sphere
	} else {
		vertices := state.VertexBuffer.Vertices()[minVertexIndex : minVertexIndex+vertexCount]
		bounds = math.BoundingSphere(vertices)
	}
	key := math.SphereDepth(state.World, state.View, bounds)
	if !math.IsFinite(key) {
		err := fmt.Errorf("batch depth %v: %w", key, core.ErrNonFiniteDepth)
		s.reject(err)
		return err
	}

	h := s.pool.acquire()
	n := s.pool.get(h)
	n.state = state
	n.state.Acquire()
	n.startIndex = startIndex
	n.polygonCount = polygonCount
	n.minVertexIndex = minVertexIndex
	n.vertexCount = vertexCount
	n.sphere = bounds
	n.key = key
	s.pending.insert(&s.pool, h)
	return nil
}

// validate checks the submitted range against the bound buffers.
func (s *Sorter) validate(state *metadata.RenderState, startIndex, polygonCount, minVertexIndex, vertexCount int) error {
	vb, ib := state.VertexBuffer, state.IndexBuffer
	if vb == nil || ib == nil {
		return fmt.Errorf("no vertex or index buffer bound: %w", core.ErrInvalidGeometry)
	}
	if polygonCount < 1 || vertexCount < 1 || startIndex < 0 || minVertexIndex < 0 {
		return fmt.Errorf("start=%d polygons=%d min_vertex=%d vertices=%d: %w",
			startIndex, polygonCount, minVertexIndex, vertexCount, core.ErrInvalidGeometry)
	}
	// Counts are compared against the room left after the start so that
	// huge arguments cannot overflow the sums.
	if startIndex > ib.Len() || polygonCount > (ib.Len()-startIndex)/3 {
		return fmt.Errorf("%d triangles from index %d exceed %d indices: %w",
			polygonCount, startIndex, ib.Len(), core.ErrInvalidGeometry)
	}
	if minVertexIndex > vb.Len() || vertexCount > vb.Len()-minVertexIndex {
		return fmt.Errorf("%d vertices from vertex %d exceed %d vertices: %w",
			vertexCount, minVertexIndex, vb.Len(), core.ErrInvalidGeometry)
	}
	if s.config.StrictSortable && !state.IsSortable() {
		return fmt.Errorf("vertex buffer %s, index buffer %s: %w", vb.Class, ib.Class, core.ErrNotSortable)
	}
	if s.config.ValidateIndices {
		indices := ib.Indices()[startIndex : startIndex+polygonCount*3]
		for i, idx := range indices {
			local := int(idx) - minVertexIndex
			if local < 0 || local >= vertexCount {
				return fmt.Errorf("index %d at position %d outside [%d, %d): %w",
					idx, startIndex+i, minVertexIndex, minVertexIndex+vertexCount, core.ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

func (s *Sorter) reject(err error) {
	s.logger.Debug("submission rejected", "err", err)
	s.fire(core.EVENT_CODE_SORT_INVALID_GEOMETRY, core.EventContext{Err: err})
}
