package sorting

import (
	"github.com/spaghettifunk/depthsort/engine/containers"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

// nodeHandle indexes a slot of the node arena.
type nodeHandle int32

type listKind uint8

const (
	listFree listKind = iota
	listPending
	listOverlap
)

// node is one deferred submission: the captured device state, the geometry
// range and its depth key.
type node struct {
	state metadata.RenderState

	startIndex     int
	polygonCount   int
	minVertexIndex int
	vertexCount    int

	sphere math.Sphere
	key    float32

	list listKind
	// Offset of this node's vertices in the shared scratch buffer, set while
	// the sorting pool is built.
	vertexOffset int
}

// nodePool is an arena of node slots recycled through a free-index stack.
// Slots are never returned to the allocator; the arena only grows to the
// largest number of batches alive at once.
type nodePool struct {
	nodes []node
	free  *containers.Stack[nodeHandle]
}

func newNodePool(capacity int) nodePool {
	return nodePool{
		nodes: make([]node, 0, capacity),
		free:  containers.NewStack[nodeHandle](capacity),
	}
}

// acquire returns a clean slot, reusing a free one when available. Pointers
// obtained from get are invalidated by acquire.
func (p *nodePool) acquire() nodeHandle {
	if h, ok := p.free.Pop(); ok {
		return h
	}
	p.nodes = append(p.nodes, node{})
	return nodeHandle(len(p.nodes) - 1)
}

func (p *nodePool) get(h nodeHandle) *node {
	return &p.nodes[h]
}

// recycle releases the node's resources and pushes it on the free stack.
func (p *nodePool) recycle(h nodeHandle) {
	n := &p.nodes[h]
	if n.list == listFree {
		return
	}
	n.state.Release()
	*n = node{list: listFree}
	p.free.Push(h)
}

// capacity is the number of distinct slots ever allocated.
func (p *nodePool) capacity() int {
	return len(p.nodes)
}

func (p *nodePool) freeCount() int {
	return p.free.Len()
}

// releaseAll recycles every live node and drops the arena storage.
func (p *nodePool) releaseAll() {
	for i := range p.nodes {
		p.nodes[i].state.Release()
	}
	p.nodes = nil
	p.free.Reset()
}
