package chaos

import "fmt"

// State is a serializable snapshot of the chain: the RNG internals, the
// last point, the history ring, and the lifetime step count. Together with
// the originating [Config] it continues a run exactly where it stopped.
// The accumulated samples are deliberately not part of the snapshot; they
// belong to whoever consumed them.
type State struct {
	RNG     []byte `json:"rng"`
	Last    Point  `json:"last"`
	History []int  `json:"history"`
	Steps   uint64 `json:"steps"`
}

// Snapshot captures the current chain state. The RNG payload is the PCG
// binary encoding, so a resumed session draws the exact same randomness
// the uninterrupted run would have drawn.
func (s *Session) Snapshot() (State, error) {
	rng, err := s.src.MarshalBinary()
	if err != nil {
		return State{}, fmt.Errorf("encode rng: %w", err)
	}
	return State{
		RNG:     rng,
		Last:    s.engine.Last(),
		History: s.engine.hist.Values(),
		Steps:   s.engine.Steps(),
	}, nil
}

// Resume builds a session from a configuration and a snapshot previously
// taken with [Session.Snapshot]. The configuration must be the one the
// snapshot was taken under; mismatched history depth or an undecodable RNG
// payload fail with [ErrState]. The resumed session's accumulated
// sequences start empty - subsequent Generate calls produce the exact
// continuation of the original run.
func Resume(cfg Config, st State) (*Session, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.src.UnmarshalBinary(st.RNG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	if !s.engine.hist.Restore(st.History) {
		return nil, fmt.Errorf("%w: history depth %d, snapshot has %d", ErrState, s.engine.hist.Cap(), len(st.History))
	}
	s.engine.last = st.Last
	s.engine.steps = st.Steps
	return s, nil
}
