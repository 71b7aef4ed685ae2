package chaos

import (
	"fmt"
	"math/rand/v2"
)

// TransformSelector picks the transform applied on a step. The chosen
// vertex is passed in so indexed selection can use it; weighted selection
// ignores it.
type TransformSelector interface {
	Pick(vertex int, rng *rand.Rand) Transform
}

// WeightedTransforms selects a transform by walking the ordered list and
// subtracting weights from a uniform draw. Weights must sum to 1 (checked
// at construction); if floating error exhausts the walk anyway, the last
// transform is returned - a step never ends up without a transform.
type WeightedTransforms struct {
	transforms []Transform
}

var _ TransformSelector = (*WeightedTransforms)(nil)

// NewWeightedTransforms validates the weight invariant and builds the
// selector. Returns [ErrTransformCount] for an empty list and
// [ErrWeightSum] when the weights miss 1 by more than [WeightTolerance].
func NewWeightedTransforms(transforms []Transform) (*WeightedTransforms, error) {
	if len(transforms) == 0 {
		return nil, fmt.Errorf("%w: need at least one transform", ErrTransformCount)
	}
	if !weightSumValid(transforms) {
		return nil, fmt.Errorf("%w: got %d transforms", ErrWeightSum, len(transforms))
	}
	return &WeightedTransforms{transforms: transforms}, nil
}

// Pick implements [TransformSelector].
func (w *WeightedTransforms) Pick(_ int, rng *rand.Rand) Transform {
	p := rng.Float64()
	for _, t := range w.transforms {
		if p < t.Weight {
			return t
		}
		p -= t.Weight
	}
	return w.transforms[len(w.transforms)-1]
}

// IndexedTransforms maps each vertex to its own transform: the transform
// at the chosen vertex's index is applied deterministically, ignoring
// randomness. Requires exactly one transform per vertex.
type IndexedTransforms struct {
	transforms []Transform
}

var _ TransformSelector = (*IndexedTransforms)(nil)

// NewIndexedTransforms builds the selector after checking that the list
// length equals the vertex count. Returns [ErrTransformCount] otherwise.
func NewIndexedTransforms(transforms []Transform, numTargets int) (*IndexedTransforms, error) {
	if len(transforms) != numTargets {
		return nil, fmt.Errorf("%w: %d transforms for %d vertices", ErrTransformCount, len(transforms), numTargets)
	}
	return &IndexedTransforms{transforms: transforms}, nil
}

// Pick implements [TransformSelector].
func (ix *IndexedTransforms) Pick(vertex int, _ *rand.Rand) Transform {
	return ix.transforms[vertex]
}
