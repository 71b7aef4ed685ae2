package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// csvHeader labels the column layout: position first, color channels after.
var csvHeader = []string{"x", "y", "r", "g", "b"}

// CSVSink writes points as CSV rows behind a single header row.
type CSVSink struct {
	w      *csv.Writer
	header bool
}

// NewCSVSink creates a CSV sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (s *CSVSink) Write(batch chaos.Batch) error {
	if !s.header {
		if err := s.w.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		s.header = true
	}

	row := make([]string, len(csvHeader))
	for i, p := range batch.Points {
		c := batch.Colors[i]
		row[0] = formatFloat(p.X)
		row[1] = formatFloat(p.Y)
		row[2] = formatFloat(c.R)
		row[3] = formatFloat(c.G)
		row[4] = formatFloat(c.B)
		if err := s.w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

func (s *CSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// formatFloat renders a coordinate or channel with round-trip precision.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var _ Sink = (*CSVSink)(nil)
