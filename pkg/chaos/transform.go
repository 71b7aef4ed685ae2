package chaos

import "math"

// Transform is an affine contraction toward an anchor point, annotated
// with the weight used by weighted-random selection. Scale values in (0,1)
// contract; Scale >= 1 is accepted by the data model but flagged by
// [Config.Warnings] since it breaks convergence.
type Transform struct {
	Scale    float64 `json:"scale" toml:"scale"`
	Rotation float64 `json:"rotation" toml:"rotation"` // radians
	Weight   float64 `json:"weight,omitempty" toml:"weight"`
}

// Apply contracts from toward anchor: translate into anchor-relative
// coordinates, scale, rotate by the standard 2D rotation matrix, and
// translate back. Pure; no state is touched.
func (t Transform) Apply(anchor, from Point) Point {
	x := t.Scale * (from.X - anchor.X)
	y := t.Scale * (from.Y - anchor.Y)
	sin, cos := math.Sincos(t.Rotation)
	return Point{
		X: x*cos - y*sin + anchor.X,
		Y: x*sin + y*cos + anchor.Y,
	}
}

// WeightTolerance is the slack allowed when checking that transform
// weights sum to 1 for weighted-random selection.
const WeightTolerance = 1e-5

// weightSumValid reports whether the weights of transforms sum to 1
// within [WeightTolerance].
func weightSumValid(transforms []Transform) bool {
	var sum float64
	for _, t := range transforms {
		sum += t.Weight
	}
	return math.Abs(sum-1) <= WeightTolerance
}
