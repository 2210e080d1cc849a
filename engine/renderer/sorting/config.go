package sorting

import (
	"fmt"

	"github.com/spaghettifunk/depthsort/engine/core"
)

// OverflowPolicy decides what Flush does when the overlap working set is full.
type OverflowPolicy string

const (
	// OverflowDrop releases the offending batch and reports ErrCapacityExceeded.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowPartialFlush sorts and draws the working set early and keeps draining.
	OverflowPartialFlush OverflowPolicy = "partial"
)

const (
	DefaultMinVertexBufferSize    = 4096
	DefaultMinPolygonCount        = 2048
	DefaultMaxOverlapNodes        = 256
	DefaultInsertionSortThreshold = 12
	DefaultInitialNodeCapacity    = 64

	MinInsertionSortThreshold = 3
	MaxInsertionSortThreshold = 64
)

/** @brief The sorting system configuration. */
type Config struct {
	// Floor for the shared scratch vertex buffer, in vertices.
	MinVertexBufferSize int `toml:"min_vertex_buffer_size"`
	// Floor for triangle record and index scratch, in triangles.
	MinPolygonCount int `toml:"min_polygon_count"`
	// Capacity of the overlap working set, in batches.
	MaxOverlapNodes int `toml:"max_overlap_nodes"`
	// Spans at or below this size are sorted by insertion sort.
	InsertionSortThreshold int `toml:"insertion_sort_threshold"`
	// Behaviour when more sortable batches arrive than MaxOverlapNodes.
	Overflow OverflowPolicy `toml:"overflow_policy"`
	// Reject submissions whose bound buffers are not of the sortable class.
	StrictSortable bool `toml:"strict_sortable"`
	// Check every submitted index against the declared vertex range.
	ValidateIndices bool `toml:"validate_indices"`
	// Node slots reserved up front.
	InitialNodeCapacity int `toml:"initial_node_capacity"`
}

func DefaultConfig() Config {
	return Config{
		MinVertexBufferSize:    DefaultMinVertexBufferSize,
		MinPolygonCount:        DefaultMinPolygonCount,
		MaxOverlapNodes:        DefaultMaxOverlapNodes,
		InsertionSortThreshold: DefaultInsertionSortThreshold,
		Overflow:               OverflowDrop,
		StrictSortable:         false,
		ValidateIndices:        true,
		InitialNodeCapacity:    DefaultInitialNodeCapacity,
	}
}

// Validate checks every field. Zero sizes are invalid; start from DefaultConfig.
func (c Config) Validate() error {
	if c.MinVertexBufferSize < 1 {
		return fmt.Errorf("min_vertex_buffer_size must be > 0, got %d: %w", c.MinVertexBufferSize, core.ErrInvalidConfig)
	}
	if c.MinPolygonCount < 1 {
		return fmt.Errorf("min_polygon_count must be > 0, got %d: %w", c.MinPolygonCount, core.ErrInvalidConfig)
	}
	if c.MaxOverlapNodes < 1 {
		return fmt.Errorf("max_overlap_nodes must be > 0, got %d: %w", c.MaxOverlapNodes, core.ErrInvalidConfig)
	}
	if c.InsertionSortThreshold < MinInsertionSortThreshold || c.InsertionSortThreshold > MaxInsertionSortThreshold {
		return fmt.Errorf("insertion_sort_threshold must be in [%d, %d], got %d: %w",
			MinInsertionSortThreshold, MaxInsertionSortThreshold, c.InsertionSortThreshold, core.ErrInvalidConfig)
	}
	switch c.Overflow {
	case OverflowDrop, OverflowPartialFlush:
	default:
		return fmt.Errorf("overflow_policy must be %q or %q, got %q: %w", OverflowDrop, OverflowPartialFlush, c.Overflow, core.ErrInvalidConfig)
	}
	if c.InitialNodeCapacity < 0 {
		return fmt.Errorf("initial_node_capacity must be >= 0, got %d: %w", c.InitialNodeCapacity, core.ErrInvalidConfig)
	}
	return nil
}

// polygonFloorFor rescales the default polygon floor to a vertex floor.
func polygonFloorFor(minVertices int) int {
	n := minVertices * DefaultMinPolygonCount / DefaultMinVertexBufferSize
	if n < 1 {
		n = 1
	}
	return n
}
