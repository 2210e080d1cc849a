package sorting

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/spaghettifunk/depthsort/engine/containers"
	"github.com/spaghettifunk/depthsort/engine/core"
)

// Sorter defers translucent batches for one frame and replays them
// back-to-front at Flush, merging batches drawn from sortable buffers into a
// single per-triangle sorted pool.
//
// A Sorter has a single writer: Insert and Flush must be called from the
// render loop and never concurrently.
type Sorter struct {
	id      string
	device  Device
	config  Config
	logger  *log.Logger
	events  *core.EventBus
	metrics *core.Metrics
	clock   *core.Clock

	pool    nodePool
	pending pendingList

	// Overlap working set: sortable nodes waiting for the sorting pool.
	overlap         *containers.RingQueue[nodeHandle]
	overlapVertices int
	overlapPolygons int

	scratch scratchPool

	// Stats of the flush in progress.
	frame core.FrameStats

	flushing bool
	closed   bool
}

// Option configures a Sorter during creation.
type Option func(*Sorter)

// WithEventBus routes diagnostics (capacity exceeded, rejected geometry) to bus.
func WithEventBus(bus *core.EventBus) Option {
	return func(s *Sorter) {
		s.events = bus
	}
}

// WithLogger replaces the engine logger used by the sorter.
func WithLogger(l *log.Logger) Option {
	return func(s *Sorter) {
		if l != nil {
			s.logger = l
		}
	}
}

/**
 * @brief Creates a sorter drawing through device.
 *
 * @param device The device to capture state from and draw with.
 * @param config The configuration for this sorter.
 * @return The sorter, or an error if the configuration is invalid.
 */
func New(device Device, config Config, opts ...Option) (*Sorter, error) {
	if device == nil {
		err := fmt.Errorf("func sorting.New - device cannot be nil: %w", core.ErrInvalidConfig)
		core.LogError(err.Error())
		return nil, err
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	id := uuid.NewString()
	s := &Sorter{
		id:      id,
		device:  device,
		config:  config,
		logger:  core.Logger().With("sorter", id[:8]),
		metrics: core.NewMetrics(),
		clock:   core.NewClock(),
		pool:    newNodePool(config.InitialNodeCapacity),
		overlap: containers.NewRingQueue[nodeHandle](config.MaxOverlapNodes),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scratch.setFloors(config.MinVertexBufferSize, config.MinPolygonCount)
	s.scratch.reserveRecords(config.MinPolygonCount)
	s.scratch.depthsFor(config.MinVertexBufferSize)

	s.logger.Debug("sorter created",
		"max_overlap_nodes", config.MaxOverlapNodes,
		"min_vertex_buffer_size", config.MinVertexBufferSize,
		"overflow_policy", config.Overflow)
	return s, nil
}

// ID returns the unique identifier of this sorter instance.
func (s *Sorter) ID() string {
	return s.id
}

// Config returns the active configuration.
func (s *Sorter) Config() Config {
	return s.config
}

/**
 * @brief Sets the floor used when growing the shared scratch buffers and
 * rescales the paired polygon floor. Existing storage is never shrunk.
 */
func (s *Sorter) SetMinVertexBufferSize(value int) {
	if value < 1 {
		s.logger.Warn("ignoring non-positive min vertex buffer size", "value", value)
		return
	}
	s.config.MinVertexBufferSize = value
	s.config.MinPolygonCount = polygonFloorFor(value)
	s.scratch.setFloors(s.config.MinVertexBufferSize, s.config.MinPolygonCount)
	s.logger.Debug("scratch floors changed", "vertices", s.config.MinVertexBufferSize, "polygons", s.config.MinPolygonCount)
}

/**
 * @brief Releases every pooled node and the scratch buffers. The sorter
 * cannot be used afterwards.
 */
func (s *Sorter) Deinit() error {
	if s.closed {
		return nil
	}
	if s.flushing {
		return fmt.Errorf("deinit during flush: %w", core.ErrReentrantFlush)
	}
	pending := s.pending.len()
	s.pending.reset()
	s.overlap.Reset()
	s.overlapVertices = 0
	s.overlapPolygons = 0
	s.pool.releaseAll()
	s.scratch.release()
	s.closed = true
	s.logger.Debug("sorter deinitialized", "discarded_pending", pending)
	return nil
}

// Stats returns the counters of the last completed flush.
func (s *Sorter) Stats() core.FrameStats {
	return s.metrics.Last()
}

// Metrics returns the rolling frame metrics.
func (s *Sorter) Metrics() *core.Metrics {
	return s.metrics
}

// PendingKeys returns the depth keys of the pending list from head to tail.
func (s *Sorter) PendingKeys() []float32 {
	keys := make([]float32, 0, s.pending.len())
	for _, h := range s.pending.handles {
		keys = append(keys, s.pool.get(h).key)
	}
	return keys
}

// PendingLen returns the number of batches waiting for Flush.
func (s *Sorter) PendingLen() int {
	return s.pending.len()
}

// NodeCapacity returns the number of distinct node slots allocated so far.
func (s *Sorter) NodeCapacity() int {
	return s.pool.capacity()
}

// ScratchUsage reports scratch occupancy and capacity.
func (s *Sorter) ScratchUsage() ScratchUsage {
	return s.scratch.usage()
}

func (s *Sorter) fire(code core.SystemEventCode, ctx core.EventContext) {
	if s.events == nil {
		return
	}
	ctx.Source = s.id
	s.events.Fire(code, s, ctx)
}
