package chaos

import "fmt"

// Color is an RGB triple with channels nominally in [0,1]. Points outside
// [-1,1] extrapolate channels outside that range; see [ColorMapper.Map].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Corner is a byte-range RGB reference color for the four-corner blend.
type Corner struct {
	R uint8 `json:"r" toml:"r"`
	G uint8 `json:"g" toml:"g"`
	B uint8 `json:"b" toml:"b"`
}

// DefaultCorners is the default coloring: red, green, blue, yellow in
// top-left, top-right, bottom-left, bottom-right order.
var DefaultCorners = []Corner{
	{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255},
}

// ColorMapper blends four corner colors into a color for a point based on
// the point's normalized position. The mapper is pure and safe to share.
type ColorMapper struct {
	corners [4]Corner
}

// NewColorMapper requires exactly four corners, ordered top-left,
// top-right, bottom-left, bottom-right. Returns [ErrCorners] otherwise.
func NewColorMapper(corners []Corner) (ColorMapper, error) {
	if len(corners) != 4 {
		return ColorMapper{}, fmt.Errorf("%w: got %d", ErrCorners, len(corners))
	}
	return ColorMapper{corners: [4]Corner{corners[0], corners[1], corners[2], corners[3]}}, nil
}

// Map derives the color for p. The point is normalized per axis via
// (v+1)/2, then each channel blends the corner pair (top-left, top-right)
// against (bottom-left, bottom-right): the pairs interpolate along y and
// the pair results mix along x, divided by 256 to bring byte-range corners
// into [0,1]. The pairing is a deliberate design choice, not a generic
// bilinear interpolation. Out-of-range points extrapolate; nothing clamps.
func (m ColorMapper) Map(p Point) Color {
	x := (p.X + 1) / 2
	y := (p.Y + 1) / 2

	blend := func(channel func(Corner) float64) float64 {
		top := channel(m.corners[0])*(1-y) + channel(m.corners[1])*y
		bottom := channel(m.corners[2])*(1-y) + channel(m.corners[3])*y
		return (top*x + bottom*(1-x)) / 256
	}

	return Color{
		R: blend(func(c Corner) float64 { return float64(c.R) }),
		G: blend(func(c Corner) float64 { return float64(c.G) }),
		B: blend(func(c Corner) float64 { return float64(c.B) }),
	}
}
