package sink

import (
	"fmt"
	"io"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// Sink consumes generated batches and writes them to an output format.
type Sink interface {
	// Write encodes one batch. Batches must arrive in generation order.
	Write(batch chaos.Batch) error

	// Flush forces buffered output to the destination.
	Flush() error
}

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// ValidFormats enumerates the supported output formats.
var ValidFormats = map[Format]bool{
	FormatCSV:    true,
	FormatNDJSON: true,
}

// New creates a sink writing the given format to w.
func New(format Format, w io.Writer) (Sink, error) {
	switch format {
	case FormatCSV:
		return NewCSVSink(w), nil
	case FormatNDJSON:
		return NewNDJSONSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
