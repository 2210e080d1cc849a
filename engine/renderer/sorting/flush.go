package sorting

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
)

/**
 * @brief Draws every batch deferred since the previous flush, back to
 * front, and resets the per-frame state. Must be called once per frame
 * after all submissions and before presenting.
 *
 * Batches drawn from sortable buffers are merged into one pool whose
 * triangles are re-sorted individually; the others are drawn whole as they
 * come off the pending list. The device render state, transforms included,
 * is restored before returning.
 *
 * @return An error wrapping core.ErrCapacityExceeded when batches had to be
 * dropped, joined with any draw or allocation failure. The frame is always
 * drained.
 */
func (s *Sorter) Flush() error {
	if s.closed {
		return core.ErrSorterClosed
	}
	if s.flushing {
		return core.ErrReentrantFlush
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	s.clock.Start()
	saved := s.device.RenderState()
	s.frame = core.FrameStats{}

	var errs []error
	for _, h := range s.pending.handles {
		n := s.pool.get(h)
		s.frame.Nodes++

		if !n.state.IsSortable() {
			if err := s.drawImmediate(h); err != nil {
				errs = append(errs, err)
			}
			s.frame.ImmediateNodes++
			s.pool.recycle(h)
			continue
		}

		if s.overlap.IsFull() && s.config.Overflow == OverflowPartialFlush {
			s.logger.Debug("overlap working set full, flushing early", "nodes", s.overlap.Len())
			if err := s.flushSortingPool(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.overlap.Enqueue(h); err != nil {
			s.frame.DroppedNodes++
			s.pool.recycle(h)
			continue
		}
		n.list = listOverlap
		s.overlapVertices += n.vertexCount
		s.overlapPolygons += n.polygonCount
	}
	s.pending.reset()

	if err := s.flushSortingPool(); err != nil {
		errs = append(errs, err)
	}
	s.scratch.resetCounters()
	s.device.SetRenderState(saved)

	s.clock.Update()
	s.frame.Duration = s.clock.Elapsed()
	s.frame.NodeSlots = s.pool.capacity()
	s.metrics.Update(s.frame)

	if dropped := s.frame.DroppedNodes; dropped > 0 {
		err := fmt.Errorf("dropped %d of %d batches (capacity %d): %w",
			dropped, s.frame.Nodes, s.overlap.Cap(), core.ErrCapacityExceeded)
		s.logger.Warn("overlap working set overflow", "dropped", dropped, "capacity", s.overlap.Cap())
		s.fire(core.EVENT_CODE_SORT_CAPACITY_EXCEEDED, core.EventContext{Count: dropped, Err: err})
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// flushSortingPool merges the overlap working set into the shared scratch
// buffers, sorts its triangles and draws them run by run. The working set
// is always emptied, even on failure.
func (s *Sorter) flushSortingPool() error {
	if s.overlap.IsEmpty() {
		return nil
	}
	defer s.recycleOverlap()

	vb, err := s.scratch.ensureVertexBuffer(s.device, s.overlapVertices)
	if err != nil {
		return err
	}
	dst, err := vb.Lock(0, s.overlapVertices)
	if err != nil {
		return err
	}

	records := s.scratch.reserveRecords(s.overlapPolygons)
	offset := 0
	skipped := 0
	for i := 0; i < s.overlap.Len(); i++ {
		h := s.overlap.At(i)
		n := s.pool.get(h)
		src := n.state.VertexBuffer.Vertices()[n.minVertexIndex : n.minVertexIndex+n.vertexCount]
		copy(dst[offset:], src)
		n.vertexOffset = offset

		depths := s.scratch.depthsFor(n.vertexCount)
		zRow := math.ZRow(math.ModelView(n.state.World, n.state.View))
		if math.IsZPassThrough(zRow) {
			for j := range src {
				depths[j] = src[j].Position.Z()
			}
		} else {
			for j := range src {
				depths[j] = math.ViewDepth(zRow, src[j].Position)
			}
		}

		indices := n.state.IndexBuffer.Indices()[n.startIndex : n.startIndex+n.polygonCount*3]
		for t := 0; t+2 < len(indices); t += 3 {
			a := int(indices[t]) - n.minVertexIndex
			b := int(indices[t+1]) - n.minVertexIndex
			c := int(indices[t+2]) - n.minVertexIndex
			if !inRange(a, n.vertexCount) || !inRange(b, n.vertexCount) || !inRange(c, n.vertexCount) {
				skipped++
				continue
			}
			key := (depths[a] + depths[b] + depths[c]) / 3
			records = append(records, TriangleRecord{
				Indices: [3]uint32{uint32(a + offset), uint32(b + offset), uint32(c + offset)},
				Owner:   h,
				Key:     math.SanitizeDepth(key, n.key),
			})
		}
		offset += n.vertexCount
	}
	vb.Unlock()
	s.scratch.records = records
	s.scratch.vertices += offset
	s.scratch.polygons += len(records)
	if skipped > 0 {
		s.logger.Warn("skipped triangles referencing vertices outside their batch", "triangles", skipped)
	}

	SortTriangles(records, s.config.InsertionSortThreshold)

	if len(records) == 0 {
		return nil
	}
	ib, err := s.scratch.ensureIndexBuffer(s.device, len(records)*3)
	if err != nil {
		return err
	}
	out, err := ib.Lock(0, len(records)*3)
	if err != nil {
		return err
	}
	for i := range records {
		copy(out[i*3:i*3+3], records[i].Indices[:])
	}
	ib.Unlock()

	s.frame.PooledNodes += s.overlap.Len()
	s.frame.Triangles += len(records)
	return s.drawRuns(records)
}

// recycleOverlap releases every node of the working set and resets it.
func (s *Sorter) recycleOverlap() {
	for !s.overlap.IsEmpty() {
		h, _ := s.overlap.Dequeue()
		s.pool.recycle(h)
	}
	s.overlap.Reset()
	s.overlapVertices = 0
	s.overlapPolygons = 0
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
