package chaos

import (
	"fmt"
	"math/rand/v2"
)

// SelectorKind names a vertex-selection strategy.
type SelectorKind string

// PickerKind names a transform-selection strategy.
type PickerKind string

const (
	// SelectorUniform picks uniformly among all vertices.
	SelectorUniform SelectorKind = "uniform"
	// SelectorFixed applies the rotating exclusion mask on every step.
	SelectorFixed SelectorKind = "fixed"
	// SelectorRepeat applies the mask only after a repeated vertex.
	SelectorRepeat SelectorKind = "repeat"

	// PickerWeighted draws transforms by weight.
	PickerWeighted PickerKind = "weighted"
	// PickerVertex indexes transforms by the chosen vertex.
	PickerVertex PickerKind = "vertex"
)

// ValidSelectors is the set of supported vertex-selection strategies.
var ValidSelectors = map[SelectorKind]bool{
	SelectorUniform: true,
	SelectorFixed:   true,
	SelectorRepeat:  true,
}

// ValidPickers is the set of supported transform-selection strategies.
var ValidPickers = map[PickerKind]bool{
	PickerWeighted: true,
	PickerVertex:   true,
}

const (
	// DefaultSeed seeds the RNG when the configuration leaves Seed zero.
	DefaultSeed = uint64(42)

	// DefaultNumTargets is the default polygon size, a hexagon.
	DefaultNumTargets = 6

	// MinTargets and MaxTargets bound the polygon size. The upper bound
	// is the exclusion mask word width.
	MinTargets = 3
	MaxTargets = 64
)

// DefaultTransform is the classic half-way contraction with no rotation.
var DefaultTransform = Transform{Scale: 0.5, Weight: 1}

// Config describes a session. The zero value is not directly usable; call
// [Config.SetDefaults] or fill the required fields, then [Config.Validate].
// The JSON tags mirror the TOML configuration surface so API requests and
// config files stay interchangeable.
type Config struct {
	NumTargets int          `json:"num_targets,omitempty"`
	Transforms []Transform  `json:"transforms,omitempty"`
	Corners    []Corner     `json:"coloring,omitempty"`
	Selector   SelectorKind `json:"selector,omitempty"`
	Picker     PickerKind   `json:"picker,omitempty"`
	Excluded   []int        `json:"excluded,omitempty"` // relative forbidden offsets
	HistLen    int          `json:"hist_len,omitempty"` // history depth for SelectorFixed
	Scan       ScanMode     `json:"scan,omitempty"`     // fixed-exclusion scan mode
	Seed       uint64       `json:"seed,omitempty"`
	PointSize  float64      `json:"point_size,omitempty"` // render-size hint, passed through
}

// SetDefaults fills unset fields with the standard defaults: a hexagon,
// uniform selection, a single half-way contraction, and red/green/blue/
// yellow corners. Idempotent.
func (c *Config) SetDefaults() {
	if c.NumTargets == 0 {
		c.NumTargets = DefaultNumTargets
	}
	if len(c.Transforms) == 0 {
		c.Transforms = []Transform{DefaultTransform}
	}
	if len(c.Corners) == 0 {
		c.Corners = append([]Corner(nil), DefaultCorners...)
	}
	if c.Selector == "" {
		c.Selector = SelectorUniform
	}
	if c.Picker == "" {
		c.Picker = PickerWeighted
	}
	if c.HistLen == 0 {
		c.HistLen = 1
	}
	if c.Scan == "" {
		c.Scan = ScanEach
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
}

// Validate checks every construction-time invariant and reports the first
// violation. All violations wrap [ErrConfig]. Scale >= 1 is deliberately
// not checked here - it is a warning, see [Config.Warnings].
func (c *Config) Validate() error {
	if c.NumTargets < MinTargets || c.NumTargets > MaxTargets {
		return fmt.Errorf("%w: got %d", ErrTargets, c.NumTargets)
	}
	if len(c.Transforms) == 0 {
		return fmt.Errorf("%w: need at least one transform", ErrTransformCount)
	}
	if len(c.Corners) != 4 {
		return fmt.Errorf("%w: got %d", ErrCorners, len(c.Corners))
	}
	if !ValidSelectors[c.Selector] {
		return fmt.Errorf("%w: %q", ErrSelector, c.Selector)
	}
	if !ValidPickers[c.Picker] {
		return fmt.Errorf("%w: %q", ErrPicker, c.Picker)
	}
	if c.Scan != "" && !ValidScans[c.Scan] {
		return fmt.Errorf("%w: %q", ErrScan, c.Scan)
	}

	switch c.Picker {
	case PickerWeighted:
		if !weightSumValid(c.Transforms) {
			return fmt.Errorf("%w: got %d transforms", ErrWeightSum, len(c.Transforms))
		}
	case PickerVertex:
		if len(c.Transforms) != c.NumTargets {
			return fmt.Errorf("%w: %d transforms for %d vertices", ErrTransformCount, len(c.Transforms), c.NumTargets)
		}
	}

	for _, off := range c.Excluded {
		if off < 0 || off >= c.NumTargets {
			return fmt.Errorf("%w: offset %d outside [0, %d)", ErrExclusion, off, c.NumTargets)
		}
	}
	if c.Selector != SelectorUniform && c.Mask().Covers(c.NumTargets) {
		return fmt.Errorf("%w: offsets %v cover all %d vertices", ErrExclusion, c.Excluded, c.NumTargets)
	}
	if c.Selector == SelectorFixed && c.HistLen < 1 {
		return fmt.Errorf("%w: got %d", ErrHistLen, c.HistLen)
	}

	return nil
}

// Warnings reports non-fatal configuration hazards: currently transforms
// with Scale >= 1, which do not contract and make the run diverge. The
// session is still constructible; callers decide how loudly to complain.
func (c *Config) Warnings() []error {
	var warnings []error
	for i, t := range c.Transforms {
		if t.Scale >= 1 {
			warnings = append(warnings, fmt.Errorf("%w: transform %d has scale %g", ErrScale, i, t.Scale))
		}
	}
	return warnings
}

// Mask folds the excluded offsets into a relative exclusion mask.
func (c *Config) Mask() Mask {
	return MaskOf(c.Excluded...)
}

// seedStream decorrelates the two PCG stream words derived from one seed.
const seedStream = 0xdeadbeef

// rng builds the deterministic generator for the configured seed.
func (c *Config) rng() (*rand.PCG, *rand.Rand) {
	src := rand.NewPCG(c.Seed, c.Seed^seedStream)
	return src, rand.New(src)
}

// selector instantiates the configured vertex-selection strategy.
func (c *Config) selector() (VertexSelector, error) {
	switch c.Selector {
	case SelectorUniform:
		return NewUniformSelector(c.NumTargets), nil
	case SelectorFixed:
		return NewFixedExclusionSelector(c.NumTargets, c.Mask(), c.HistLen, c.Scan)
	case SelectorRepeat:
		return NewRepeatExclusionSelector(c.NumTargets, c.Mask())
	default:
		return nil, fmt.Errorf("%w: %q", ErrSelector, c.Selector)
	}
}

// picker instantiates the configured transform-selection strategy.
func (c *Config) picker() (TransformSelector, error) {
	switch c.Picker {
	case PickerWeighted:
		return NewWeightedTransforms(c.Transforms)
	case PickerVertex:
		return NewIndexedTransforms(c.Transforms, c.NumTargets)
	default:
		return nil, fmt.Errorf("%w: %q", ErrPicker, c.Picker)
	}
}
