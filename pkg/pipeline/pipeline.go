// Package pipeline provides the configuration and run pipeline for the
// chaos game sampler.
//
// This package implements the complete configure → generate → emit flow
// shared by the CLI, the HTTP API, and tests. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Configure: Resolve run options from an embedded preset, a TOML file,
//     or an API request, and apply quality and flag overrides
//  2. Generate: Drive a sampling session batch by batch on a producer
//     goroutine
//  3. Emit: Stream each batch into a sink (CSV, NDJSON, memory)
//
// # Usage
//
// Run a named preset:
//
//	opts, err := pipeline.LoadPreset("sierpinski")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts.Points = 250_000
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Run(ctx, opts, snk)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Continue a restored session:
//
//	sess, err := chaos.Resume(rec.Config, rec.State)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err = runner.RunSession(ctx, "resumed", sess, n, batch, snk)
package pipeline

import (
	"fmt"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPoints is the number of points a run produces when the caller
	// does not say otherwise.
	DefaultPoints = 100_000

	// DefaultBatchSize is the number of points generated per batch. Batches
	// bound memory pressure on the sink side and set the cancellation
	// granularity: a canceled run stops at the next batch edge.
	DefaultBatchSize = 10_000

	// DefaultQuality is the marker-size preset applied when neither a
	// quality nor an explicit point size is configured.
	DefaultQuality = QualityRough
)

// Quality constants name the marker-size presets.
const (
	QualityRough  = "rough"
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityFine   = "fine"
)

// QualitySizes maps each quality preset to its marker size. Finer quality
// means smaller markers: a fine render of a million points reads as a
// texture, not a blob.
var QualitySizes = map[string]float64{
	QualityRough:  1.0,
	QualityLow:    0.5,
	QualityMedium: 0.2,
	QualityFine:   0.05,
}

// ValidQualities is the set of supported quality presets.
var ValidQualities = map[string]bool{
	QualityRough:  true,
	QualityLow:    true,
	QualityMedium: true,
	QualityFine:   true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a run. The struct supports both
// JSON serialization for API requests and TOML decoding for preset and
// config files; the two surfaces use the same key names.
type Options struct {
	// Generator options
	NumTargets int                `json:"num_targets,omitempty" toml:"num_targets"`
	Transforms []chaos.Transform  `json:"transforms,omitempty" toml:"transform"`
	Coloring   []chaos.Corner     `json:"coloring,omitempty" toml:"coloring"`
	Selector   chaos.SelectorKind `json:"selector,omitempty" toml:"selector"`
	Picker     chaos.PickerKind   `json:"picker,omitempty" toml:"picker"`
	Excluded   []int              `json:"excluded,omitempty" toml:"excluded"`
	HistLen    int                `json:"hist_len,omitempty" toml:"hist_len"`
	Scan       chaos.ScanMode     `json:"scan,omitempty" toml:"scan"`
	Seed       uint64             `json:"seed,omitempty" toml:"seed"`

	// Presentation options
	Quality   string  `json:"quality,omitempty" toml:"quality"`
	PointSize float64 `json:"point_size,omitempty" toml:"point_size"`

	// Run options
	Points    int `json:"points,omitempty" toml:"points"`
	BatchSize int `json:"batch_size,omitempty" toml:"batch_size"`

	// Description documents a preset; it has no effect on generation.
	Description string `json:"description,omitempty" toml:"description"`

	// Name identifies the preset or file the options came from (not serialized).
	Name string `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-" toml:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateQuality checks that a quality preset is valid.
func ValidateQuality(quality string) error {
	if !ValidQualities[quality] {
		return fmt.Errorf("invalid quality: %q (must be one of: rough, low, medium, fine)", quality)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for a run.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.SetRunDefaults()

	if err := ValidateQuality(o.Quality); err != nil {
		return err
	}
	if o.PointSize == 0 {
		o.PointSize = QualitySizes[o.Quality]
	}
	if o.Points < 0 {
		return fmt.Errorf("points must be >= 0, got %d", o.Points)
	}
	if o.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1, got %d", o.BatchSize)
	}

	// Generator fields are validated by the same rules sessions enforce,
	// so a bad config fails here instead of mid-run.
	cfg := o.GeneratorConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// SetRunDefaults sets default values for the run-level fields.
func (o *Options) SetRunDefaults() {
	if o.Quality == "" {
		o.Quality = DefaultQuality
	}
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
}

// GeneratorConfig assembles the generator configuration from the options,
// with generator-level defaults applied. The quality preset resolves into
// PointSize beforehand via [Options.ValidateAndSetDefaults].
func (o *Options) GeneratorConfig() chaos.Config {
	cfg := chaos.Config{
		NumTargets: o.NumTargets,
		Transforms: o.Transforms,
		Corners:    o.Coloring,
		Selector:   o.Selector,
		Picker:     o.Picker,
		Excluded:   o.Excluded,
		HistLen:    o.HistLen,
		Scan:       o.Scan,
		Seed:       o.Seed,
		PointSize:  o.PointSize,
	}
	cfg.SetDefaults()
	return cfg
}

// Source names where the options came from for logs and hooks.
func (o *Options) Source() string {
	if o.Name == "" {
		return "custom"
	}
	return o.Name
}
