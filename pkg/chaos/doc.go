// Package chaos implements a chaos-game point sampler for iterated
// function systems (IFS).
//
// # Overview
//
// A chaos game draws the attractor of an iterated function system by
// repeatedly contracting a point toward the vertices of a regular polygon.
// Each step picks a target vertex, picks an affine contraction, applies it
// to the previous point, and records the result together with a color
// derived from its position. Over enough iterations the recorded cloud
// converges onto a fractal.
//
// The package is organized around small, composable pieces:
//
//   - [Transform]: an affine contraction (scale, rotation) with a selection weight
//   - [VertexSelector]: picks the next target vertex, optionally constrained
//     by recent history through a rotating exclusion [Mask]
//   - [TransformSelector]: picks the transform for a step (weighted random
//     or indexed by the chosen vertex)
//   - [Engine]: the sequential iterator that owns the rolling [History]
//   - [ColorMapper]: maps a point position to an RGB color by blending four
//     corner colors
//   - [Session]: batch orchestration, accumulation, and snapshots
//
// # Basic Usage
//
// Build a [Config], construct a [Session], and request batches:
//
//	cfg := chaos.Config{NumTargets: 3, Seed: 7}
//	cfg.SetDefaults()
//	s, err := chaos.NewSession(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch, err := s.Generate(100000)
//
// Each batch continues from the previous one: the point sequence forms a
// single first-order Markov chain regardless of how it is split into
// batches. Given the same seed and configuration, two sessions produce
// identical sequences.
//
// # Determinism and Concurrency
//
// All randomness flows through a PCG source seeded at construction, so runs
// are reproducible and snapshots ([Session.Snapshot], [Resume]) can continue
// a run exactly where it stopped. Point i depends on point i-1, so a session
// is inherently sequential: it is not safe for concurrent use, and callers
// must serialize Generate calls. Pipelining generation with downstream
// consumption belongs to the caller (see the pipeline package).
//
// # Known Numeric Behaviors
//
// Transforms with Scale >= 1 do not contract; the run diverges instead of
// converging onto an attractor. Points that drift outside [-1,1] produce
// colors extrapolated outside [0,1]. Neither is an error: validation flags
// the former through [Config.Warnings] and the color mapper never clamps.
package chaos
