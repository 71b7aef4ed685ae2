package chaos

import "math/rand/v2"

// Engine is the sequential point iterator. Each step picks a vertex, picks
// a transform, contracts the previous point toward the vertex, and records
// the choice in the rolling history. Point i depends on point i-1, so
// steps form a single causal chain - there is no parallelism inside an
// engine, and an Engine is not safe for concurrent use.
//
// The zero value is not usable - use NewEngine.
type Engine struct {
	vertices []Point
	selector VertexSelector
	picker   TransformSelector
	hist     *History
	rng      *rand.Rand
	last     Point
	steps    uint64
}

// NewEngine wires vertices, selectors, and the RNG into an engine starting
// at the origin with a zero-filled history of the given depth.
func NewEngine(vertices []Point, selector VertexSelector, picker TransformSelector, histLen int, rng *rand.Rand) *Engine {
	return &Engine{
		vertices: vertices,
		selector: selector,
		picker:   picker,
		hist:     NewHistory(histLen),
		rng:      rng,
	}
}

// Step advances the chain by one point and returns the new point together
// with the chosen vertex index. The error is non-nil only when an
// exclusion rule leaves no vertex available, which indicates a
// configuration problem; the engine state is unchanged in that case.
func (e *Engine) Step() (Point, int, error) {
	v, err := e.selector.Next(e.hist, e.rng)
	if err != nil {
		return Point{}, 0, err
	}
	e.hist.Push(v)

	t := e.picker.Pick(v, e.rng)
	e.last = t.Apply(e.vertices[v], e.last)
	e.steps++
	return e.last, v, nil
}

// Last returns the most recent point; the origin before the first step.
func (e *Engine) Last() Point { return e.last }

// Steps returns how many steps the engine has taken.
func (e *Engine) Steps() uint64 { return e.steps }
