package chaos

import (
	"errors"
	"fmt"
)

// ErrConfig is the kind shared by all configuration errors. Every specific
// configuration sentinel below wraps it, so errors.Is(err, ErrConfig)
// matches any of them. Configuration errors are raised eagerly by
// [Config.Validate] and [NewSession]; a session is never half-built.
var ErrConfig = errors.New("invalid configuration")

var (
	// ErrTargets is returned when NumTargets is outside [3, 64]. Three is
	// the smallest polygon; 64 is the width of the exclusion mask word.
	ErrTargets = fmt.Errorf("%w: num_targets must be between 3 and 64", ErrConfig)

	// ErrWeightSum is returned when the transform weights do not sum to 1
	// within tolerance for weighted-random selection. See [WeightTolerance].
	ErrWeightSum = fmt.Errorf("%w: transform weights must sum to 1", ErrConfig)

	// ErrTransformCount is returned when the transform list is empty, or
	// when vertex-indexed selection is configured with a list whose length
	// differs from NumTargets.
	ErrTransformCount = fmt.Errorf("%w: transform count does not match", ErrConfig)

	// ErrCorners is returned when the corner color list does not contain
	// exactly four entries (top-left, top-right, bottom-left, bottom-right).
	ErrCorners = fmt.Errorf("%w: coloring requires exactly 4 corners", ErrConfig)

	// ErrExclusion is returned when an exclusion rule leaves no vertex to
	// choose from: eagerly, when the relative mask covers every vertex, or
	// at selection time, when the union of rotated masks does. It also
	// covers excluded offsets outside [0, NumTargets).
	ErrExclusion = fmt.Errorf("%w: exclusion leaves no available vertex", ErrConfig)

	// ErrHistLen is returned when the history depth for fixed exclusion is
	// not a positive integer.
	ErrHistLen = fmt.Errorf("%w: hist_len must be positive", ErrConfig)

	// ErrSelector is returned for an unknown vertex selector kind.
	ErrSelector = fmt.Errorf("%w: unknown selector", ErrConfig)

	// ErrPicker is returned for an unknown transform selector kind.
	ErrPicker = fmt.Errorf("%w: unknown picker", ErrConfig)

	// ErrScan is returned for an unknown fixed-exclusion scan mode.
	ErrScan = fmt.Errorf("%w: unknown scan mode", ErrConfig)

	// ErrState is returned by [Resume] when a snapshot does not match the
	// configuration it is replayed against (history length, RNG payload).
	ErrState = fmt.Errorf("%w: snapshot does not match configuration", ErrConfig)
)

// ErrScale is reported by [Config.Warnings] for transforms with Scale >= 1.
// Such transforms do not contract, so the run diverges instead of settling
// onto an attractor. This is deliberately not part of [ErrConfig]: the
// configuration stays usable and construction proceeds.
var ErrScale = errors.New("transform does not contract (scale >= 1)")

// ErrBatchSize is returned by [Session.Generate] when the requested batch
// size is not a positive integer. Callers at interactive boundaries are
// expected to report it and ask again rather than coerce the input.
var ErrBatchSize = errors.New("batch size must be a positive integer")
