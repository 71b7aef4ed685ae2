// Package sink provides output format writers for generated point sets.
//
// # Overview
//
// A "sink" consumes batches of points as they are produced and encodes them
// into a destination format. This package provides writers for:
//
//   - CSV: Spreadsheet-friendly tabular output
//   - NDJSON: Newline-delimited JSON for streaming pipelines
//   - Memory: In-process accumulation for tests and previews
//
// Sinks are streaming: each batch is encoded as it arrives, so multi-million
// point runs never hold the full encoded output in memory.
//
// # CSV Output
//
// [CSVSink] writes a header row followed by one row per point, position
// first and color channels after:
//
//	x,y,r,g,b
//
// Coordinates and channels are formatted with full round-trip precision.
//
// # NDJSON Output
//
// [NDJSONSink] writes one JSON object per line:
//
//	{"x":0.5,"y":0,"r":0.498046875,"g":0.498046875,"b":0.12451171875}
//
// Each line is self-contained, so the output can be consumed by jq, line
// splitters, and log shippers without parsing the whole document.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a writer implementing [Sink]
//  2. Register its [Format] in ValidFormats and the [New] factory
//  3. Register in internal/cli for command-line support
//
// The existing sinks provide examples: csv.go for tabular output, ndjson.go
// for record streams.
package sink
