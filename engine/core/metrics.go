package core

import "time"

const AVG_COUNT uint8 = 30

// FrameStats describes the work performed by one sorting flush.
type FrameStats struct {
	// Nodes drained from the pending list.
	Nodes int
	// Nodes merged into the shared sorting pool.
	PooledNodes int
	// Nodes drawn whole, in list order.
	ImmediateNodes int
	// Nodes dropped because the overlap working set was full.
	DroppedNodes int
	// Triangles re-sorted through the shared pool.
	Triangles int
	// Draw calls issued, immediate ones included.
	DrawCalls int
	// Same-owner runs replayed from the sorted pool.
	Runs int
	// Node slots allocated by the arena since creation.
	NodeSlots int
	// Time spent inside Flush.
	Duration time.Duration
}

// Metrics keeps a rolling window of the last AVG_COUNT frames.
type Metrics struct {
	frameAVGCounter uint8
	window          [AVG_COUNT]FrameStats
	filled          uint8
	last            FrameStats
	frames          uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records the stats for the frame that just finished.
func (m *Metrics) Update(stats FrameStats) {
	m.window[m.frameAVGCounter] = stats
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT
	if m.filled < AVG_COUNT {
		m.filled++
	}
	m.last = stats
	m.frames++
}

// Last returns the stats of the most recent frame.
func (m *Metrics) Last() FrameStats {
	return m.last
}

// Frames returns how many frames have been recorded.
func (m *Metrics) Frames() uint64 {
	return m.frames
}

// Average returns the mean of the recorded window. NodeSlots is reported as
// the window maximum since it only ever grows.
func (m *Metrics) Average() FrameStats {
	var avg FrameStats
	if m.filled == 0 {
		return avg
	}
	var duration time.Duration
	for i := uint8(0); i < m.filled; i++ {
		s := m.window[i]
		avg.Nodes += s.Nodes
		avg.PooledNodes += s.PooledNodes
		avg.ImmediateNodes += s.ImmediateNodes
		avg.DroppedNodes += s.DroppedNodes
		avg.Triangles += s.Triangles
		avg.DrawCalls += s.DrawCalls
		avg.Runs += s.Runs
		duration += s.Duration
		if s.NodeSlots > avg.NodeSlots {
			avg.NodeSlots = s.NodeSlots
		}
	}
	n := int(m.filled)
	avg.Nodes /= n
	avg.PooledNodes /= n
	avg.ImmediateNodes /= n
	avg.DroppedNodes /= n
	avg.Triangles /= n
	avg.DrawCalls /= n
	avg.Runs /= n
	avg.Duration = duration / time.Duration(n)
	return avg
}
