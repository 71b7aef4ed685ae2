package chaos

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Session orchestrates an [Engine] and a [ColorMapper] across batches. It
// owns the vertex list, the accumulated point and color sequences, and the
// rolling history; batches continue where the previous one stopped, so
// splitting a run into batches never perturbs the sequence.
//
// A Session is confined to one goroutine at a time: Generate calls must be
// serialized by the caller.
//
// The zero value is not usable - use NewSession or Resume.
type Session struct {
	cfg    Config
	engine *Engine
	src    *rand.PCG
	mapper ColorMapper
	points []Point
	colors []Color
}

// Batch is the suffix appended by one Generate call. Points and Colors are
// read-only views into the session's accumulated sequences; Start is the
// index of the first entry within them.
type Batch struct {
	Points []Point
	Colors []Color
	Start  int
}

// Len returns the number of samples in the batch.
func (b Batch) Len() int { return len(b.Points) }

// NewSession validates the configuration eagerly and builds a session
// starting at the origin. Any violated invariant fails construction with
// an error wrapping [ErrConfig]; there is no partial session.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mapper, err := NewColorMapper(cfg.Corners)
	if err != nil {
		return nil, err
	}
	selector, err := cfg.selector()
	if err != nil {
		return nil, err
	}
	picker, err := cfg.picker()
	if err != nil {
		return nil, err
	}

	src, rng := cfg.rng()
	return &Session{
		cfg:    cfg,
		engine: NewEngine(Polygon(cfg.NumTargets), selector, picker, cfg.HistLen, rng),
		src:    src,
		mapper: mapper,
	}, nil
}

// Generate advances the chain by n points, colors each one, appends both
// to the accumulated sequences, and returns the new suffix. n must be
// positive; [ErrBatchSize] is returned otherwise. On a mid-batch selection
// failure the points generated so far are retained and the error is
// returned; there are no other partial-success semantics.
func (s *Session) Generate(n int) (Batch, error) {
	if n <= 0 {
		return Batch{}, fmt.Errorf("%w: got %d", ErrBatchSize, n)
	}

	start := len(s.points)
	for range n {
		p, _, err := s.engine.Step()
		if err != nil {
			return s.suffix(start), err
		}
		s.points = append(s.points, p)
		s.colors = append(s.colors, s.mapper.Map(p))
	}
	return s.suffix(start), nil
}

func (s *Session) suffix(start int) Batch {
	return Batch{Points: s.points[start:], Colors: s.colors[start:], Start: start}
}

// Points returns the full accumulated point sequence as a read-only view.
func (s *Session) Points() []Point { return s.points }

// Colors returns the color sequence parallel to [Session.Points].
func (s *Session) Colors() []Color { return s.colors }

// Len returns how many samples the session has accumulated.
func (s *Session) Len() int { return len(s.points) }

// Steps returns the lifetime step count of the underlying chain. After
// [Resume] this exceeds [Session.Len] by the steps taken before the
// snapshot.
func (s *Session) Steps() uint64 { return s.engine.Steps() }

// Vertices returns a copy of the polygon vertices.
func (s *Session) Vertices() []Point { return slices.Clone(s.engine.vertices) }

// PointSize returns the render-size hint from the configuration.
func (s *Session) PointSize() float64 { return s.cfg.PointSize }

// Seed returns the RNG seed the session was built with.
func (s *Session) Seed() uint64 { return s.cfg.Seed }

// Config returns the configuration the session was built with.
func (s *Session) Config() Config { return s.cfg }
