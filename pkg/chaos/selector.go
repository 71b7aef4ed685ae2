package chaos

import (
	"fmt"
	"math/rand/v2"
)

// ScanMode controls which history entries a fixed-exclusion selector
// rotates the mask against. With more than one remembered entry the
// rotation anchor is ambiguous: either every entry anchors its own
// rotation, or the most recent entry anchors them all. Both modes are
// supported.
type ScanMode string

const (
	// ScanEach rotates the mask by the i-th most recent entry for each
	// remembered slot and unions the results. This is the default.
	ScanEach ScanMode = "each"
	// ScanLatest rotates the mask by the most recent entry once per
	// remembered slot. For hist_len 1 the two modes coincide.
	ScanLatest ScanMode = "latest"
)

// ValidScans is the set of supported scan modes.
var ValidScans = map[ScanMode]bool{
	ScanEach:   true,
	ScanLatest: true,
}

// VertexSelector picks the next target vertex. Implementations only read
// the history; the engine pushes the chosen vertex afterwards.
type VertexSelector interface {
	// Next returns a vertex index in [0, n). It fails only when an
	// exclusion rule leaves no vertex available.
	Next(hist *History, rng *rand.Rand) (int, error)
}

// UniformSelector picks uniformly among all vertices, ignoring history.
type UniformSelector struct {
	n int
}

var _ VertexSelector = (*UniformSelector)(nil)

// NewUniformSelector creates a selector over n vertices.
func NewUniformSelector(n int) *UniformSelector {
	return &UniformSelector{n: n}
}

// Next implements [VertexSelector].
func (s *UniformSelector) Next(_ *History, rng *rand.Rand) (int, error) {
	return rng.IntN(s.n), nil
}

// FixedExclusionSelector forbids the vertices obtained by rotating a
// relative exclusion mask against the recent history, then picks uniformly
// among the rest. With histLen 1 and a single-offset mask this is the
// classic "don't revisit an offset of the last vertex" rule.
type FixedExclusionSelector struct {
	n       int
	mask    Mask
	histLen int
	scan    ScanMode
}

var _ VertexSelector = (*FixedExclusionSelector)(nil)

// NewFixedExclusionSelector creates a history-aware selector. The mask is
// relative; histLen entries of history are consulted per draw. Returns
// [ErrExclusion] when the mask alone covers every vertex, [ErrHistLen] for
// a non-positive histLen, and [ErrScan] for an unknown scan mode.
func NewFixedExclusionSelector(n int, mask Mask, histLen int, scan ScanMode) (*FixedExclusionSelector, error) {
	if histLen < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrHistLen, histLen)
	}
	if scan == "" {
		scan = ScanEach
	}
	if !ValidScans[scan] {
		return nil, fmt.Errorf("%w: %q", ErrScan, scan)
	}
	if mask.Covers(n) {
		return nil, fmt.Errorf("%w: mask %b forbids all %d vertices", ErrExclusion, mask, n)
	}
	return &FixedExclusionSelector{n: n, mask: mask, histLen: histLen, scan: scan}, nil
}

// Next implements [VertexSelector].
func (s *FixedExclusionSelector) Next(hist *History, rng *rand.Rand) (int, error) {
	forbidden := s.mask.Rotate(s.n, hist.Last())
	if s.scan == ScanEach {
		for i := 1; i < min(s.histLen, hist.Cap()); i++ {
			forbidden |= s.mask.Rotate(s.n, hist.At(i))
		}
	}

	avail := available(s.n, forbidden)
	if len(avail) == 0 {
		return 0, fmt.Errorf("%w: history %v with mask %b", ErrExclusion, hist.Values(), s.mask)
	}
	return avail[rng.IntN(len(avail))], nil
}

// RepeatExclusionSelector applies the rotated exclusion only when the same
// vertex was chosen twice in a row; otherwise it picks uniformly with no
// constraint. A repeated vertex thus cannot trigger its own disallowed
// follow-ups.
type RepeatExclusionSelector struct {
	n    int
	mask Mask
}

var _ VertexSelector = (*RepeatExclusionSelector)(nil)

// NewRepeatExclusionSelector creates the repeat-triggered selector.
// Returns [ErrExclusion] when the mask covers every vertex.
func NewRepeatExclusionSelector(n int, mask Mask) (*RepeatExclusionSelector, error) {
	if mask.Covers(n) {
		return nil, fmt.Errorf("%w: mask %b forbids all %d vertices", ErrExclusion, mask, n)
	}
	return &RepeatExclusionSelector{n: n, mask: mask}, nil
}

// Next implements [VertexSelector].
func (s *RepeatExclusionSelector) Next(hist *History, rng *rand.Rand) (int, error) {
	if hist.At(0) != hist.At(1) {
		return rng.IntN(s.n), nil
	}

	forbidden := s.mask.Rotate(s.n, hist.Last())
	avail := available(s.n, forbidden)
	if len(avail) == 0 {
		return 0, fmt.Errorf("%w: repeated vertex %d with mask %b", ErrExclusion, hist.Last(), s.mask)
	}
	return avail[rng.IntN(len(avail))], nil
}
