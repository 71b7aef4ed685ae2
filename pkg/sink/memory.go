package sink

import "github.com/nloeffler/chaosgame/pkg/chaos"

// MemorySink accumulates batches in memory for tests and previews.
type MemorySink struct {
	points []chaos.Point
	colors []chaos.Color
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(batch chaos.Batch) error {
	s.points = append(s.points, batch.Points...)
	s.colors = append(s.colors, batch.Colors...)
	return nil
}

func (s *MemorySink) Flush() error { return nil }

// Points returns the accumulated points.
func (s *MemorySink) Points() []chaos.Point { return s.points }

// Colors returns the accumulated colors.
func (s *MemorySink) Colors() []chaos.Color { return s.colors }

// Len returns the number of accumulated points.
func (s *MemorySink) Len() int { return len(s.points) }

var _ Sink = (*MemorySink)(nil)
