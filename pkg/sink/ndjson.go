package sink

import (
	"encoding/json"
	"io"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// ndjsonRecord is one output line: a point with its color channels inline.
type ndjsonRecord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// NDJSONSink writes one JSON object per line. Each line is self-contained,
// so downstream consumers can split on newlines without a JSON parser.
type NDJSONSink struct {
	enc *json.Encoder
}

// NewNDJSONSink creates an NDJSON sink writing to w.
func NewNDJSONSink(w io.Writer) *NDJSONSink {
	return &NDJSONSink{enc: json.NewEncoder(w)}
}

func (s *NDJSONSink) Write(batch chaos.Batch) error {
	for i, p := range batch.Points {
		c := batch.Colors[i]
		if err := s.enc.Encode(ndjsonRecord{X: p.X, Y: p.Y, R: c.R, G: c.G, B: c.B}); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op; the encoder writes through on every record.
func (s *NDJSONSink) Flush() error { return nil }

var _ Sink = (*NDJSONSink)(nil)
