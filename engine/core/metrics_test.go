package core

import (
	"testing"
	"time"
)

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	if got := m.Average(); got != (FrameStats{}) {
		t.Fatalf("Average() of empty window = %+v, want zero", got)
	}

	m.Update(FrameStats{DrawCalls: 2, Triangles: 10, NodeSlots: 3, Duration: time.Millisecond})
	m.Update(FrameStats{DrawCalls: 4, Triangles: 30, NodeSlots: 5, Duration: 3 * time.Millisecond})

	avg := m.Average()
	if avg.DrawCalls != 3 {
		t.Errorf("DrawCalls = %d, want 3", avg.DrawCalls)
	}
	if avg.Triangles != 20 {
		t.Errorf("Triangles = %d, want 20", avg.Triangles)
	}
	if avg.NodeSlots != 5 {
		t.Errorf("NodeSlots = %d, want window max 5", avg.NodeSlots)
	}
	if avg.Duration != 2*time.Millisecond {
		t.Errorf("Duration = %v, want 2ms", avg.Duration)
	}
	if m.Last().DrawCalls != 4 {
		t.Errorf("Last().DrawCalls = %d, want 4", m.Last().DrawCalls)
	}
	if m.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", m.Frames())
	}
}

func TestMetricsWindowWraps(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(FrameStats{DrawCalls: 100})
	}
	// A full window of ones pushes every 100 out.
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(FrameStats{DrawCalls: 1})
	}
	if got := m.Average().DrawCalls; got != 1 {
		t.Fatalf("DrawCalls = %d after wrap, want 1", got)
	}
}
