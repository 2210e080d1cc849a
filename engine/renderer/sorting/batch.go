package sorting

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

// applyState binds everything in state except the geometry buffers.
func (s *Sorter) applyState(state *metadata.RenderState) {
	d := s.device
	d.SetShader(state.Shader)
	d.SetMaterial(state.Material)
	stages := min(d.MaxTextureStages(), metadata.MaxTextureStages)
	for i := 0; i < stages; i++ {
		d.SetTexture(i, state.Textures[i])
	}
	d.SetTransform(metadata.TransformWorld, state.World)
	d.SetTransform(metadata.TransformView, state.View)

	if state.Material == nil || !state.Material.LightingEnabled {
		return
	}
	for i := 0; i < metadata.MaxLights; i++ {
		d.SetLight(i, state.Lights[i])
		if state.Lights[i] == nil {
			break
		}
	}
}

// drawImmediate draws a whole batch with its own state and buffers.
func (s *Sorter) drawImmediate(h nodeHandle) error {
	n := s.pool.get(h)
	s.applyState(&n.state)
	s.device.SetBuffers(n.state.VertexBuffer, n.state.IndexBuffer)
	s.frame.DrawCalls++
	if err := s.device.DrawTriangles(n.startIndex, n.polygonCount, n.minVertexIndex, n.vertexCount); err != nil {
		return fmt.Errorf("immediate draw of %d triangles: %w", n.polygonCount, err)
	}
	return nil
}

// drawRuns binds the shared buffers once and issues one draw per maximal
// run of consecutive records owned by the same batch.
func (s *Sorter) drawRuns(records []TriangleRecord) error {
	s.device.SetBuffers(s.scratch.vertexBuffer, s.scratch.indexBuffer)

	var errs []error
	for start := 0; start < len(records); {
		owner := records[start].Owner
		end := start + 1
		for end < len(records) && records[end].Owner == owner {
			end++
		}
		n := s.pool.get(owner)
		s.applyState(&n.state)
		s.frame.DrawCalls++
		s.frame.Runs++
		if err := s.device.DrawTriangles(start*3, end-start, n.vertexOffset, n.vertexCount); err != nil {
			errs = append(errs, fmt.Errorf("run of %d triangles: %w", end-start, err))
		}
		start = end
	}
	return errors.Join(errs...)
}
