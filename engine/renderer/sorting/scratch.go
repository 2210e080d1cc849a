package sorting

import (
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

// ScratchUsage reports the per-frame occupancy and the persistent capacity
// of the scratch storage.
type ScratchUsage struct {
	// Vertices and Polygons written during the current flush.
	Vertices int
	Polygons int

	VertexCapacity int
	IndexCapacity  int
	RecordCapacity int
	DepthCapacity  int
}

// scratchPool owns growable storage that persists across frames and never
// shrinks: triangle records, per-vertex depths and the shared device
// buffers the merged pool is drawn from.
type scratchPool struct {
	minVertices int
	minPolygons int

	records []TriangleRecord
	depths  []float32

	vertexBuffer *metadata.VertexBuffer
	indexBuffer  *metadata.IndexBuffer

	vertices int
	polygons int
}

// growSize returns the capacity to allocate so that needed elements fit,
// keeping the current capacity when it is already large enough.
func growSize(current, needed, floor int) int {
	if needed <= current {
		return current
	}
	size := needed * 2
	if size < floor {
		size = floor
	}
	return size
}

func (s *scratchPool) setFloors(minVertices, minPolygons int) {
	s.minVertices = minVertices
	s.minPolygons = minPolygons
}

// reserveRecords returns an empty record slice with room for n records.
func (s *scratchPool) reserveRecords(n int) []TriangleRecord {
	if cap(s.records) < n {
		s.records = make([]TriangleRecord, 0, growSize(cap(s.records), n, s.minPolygons))
	}
	return s.records[:0]
}

// depthsFor returns a depth slice of length n.
func (s *scratchPool) depthsFor(n int) []float32 {
	if cap(s.depths) < n {
		s.depths = make([]float32, growSize(cap(s.depths), n, s.minVertices))
	}
	return s.depths[:n]
}

// ensureVertexBuffer makes the shared vertex buffer hold at least n vertices.
func (s *scratchPool) ensureVertexBuffer(dev Device, n int) (*metadata.VertexBuffer, error) {
	current := 0
	if s.vertexBuffer != nil {
		current = s.vertexBuffer.Len()
	}
	size := growSize(current, n, s.minVertices)
	if s.vertexBuffer != nil && size == current {
		return s.vertexBuffer, nil
	}
	vb, err := dev.AllocateDynamicVertexBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("allocate scratch vertex buffer of %d vertices: %w", size, err)
	}
	vb.AddRef()
	if s.vertexBuffer != nil {
		s.vertexBuffer.Release()
	}
	s.vertexBuffer = vb
	return vb, nil
}

// ensureIndexBuffer makes the shared index buffer hold at least n indices.
func (s *scratchPool) ensureIndexBuffer(dev Device, n int) (*metadata.IndexBuffer, error) {
	current := 0
	if s.indexBuffer != nil {
		current = s.indexBuffer.Len()
	}
	size := growSize(current, n, s.minPolygons*3)
	if s.indexBuffer != nil && size == current {
		return s.indexBuffer, nil
	}
	ib, err := dev.AllocateDynamicIndexBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("allocate scratch index buffer of %d indices: %w", size, err)
	}
	ib.AddRef()
	if s.indexBuffer != nil {
		s.indexBuffer.Release()
	}
	s.indexBuffer = ib
	return ib, nil
}

func (s *scratchPool) resetCounters() {
	s.records = s.records[:0]
	s.vertices = 0
	s.polygons = 0
}

func (s *scratchPool) usage() ScratchUsage {
	u := ScratchUsage{
		Vertices:       s.vertices,
		Polygons:       s.polygons,
		RecordCapacity: cap(s.records),
		DepthCapacity:  cap(s.depths),
	}
	if s.vertexBuffer != nil {
		u.VertexCapacity = s.vertexBuffer.Len()
	}
	if s.indexBuffer != nil {
		u.IndexCapacity = s.indexBuffer.Len()
	}
	return u
}

// release drops the shared device buffers and the host-side storage.
func (s *scratchPool) release() {
	if s.vertexBuffer != nil {
		s.vertexBuffer.Release()
		s.vertexBuffer = nil
	}
	if s.indexBuffer != nil {
		s.indexBuffer.Release()
		s.indexBuffer = nil
	}
	s.records = nil
	s.depths = nil
	s.vertices = 0
	s.polygons = 0
}
