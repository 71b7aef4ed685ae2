package chaos

import "math"

// Point is a position in the plane. Generated points stay near the polygon
// for contracting configurations but are not bounded to [-1,1] in general.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Polygon returns the vertices of a regular n-gon on the unit circle.
// Even counts start at angle 0 (vertex 0 on the positive x axis); odd
// counts are rotated so the shape stands apex-up (vertex 0 at the top).
// Callers are expected to have validated n; see [Config.Validate].
func Polygon(n int) []Point {
	vertices := make([]Point, n)
	for i := range vertices {
		angle := 2 * math.Pi * float64(i) / float64(n)
		if n%2 != 0 {
			angle = math.Pi/2 - angle
		}
		sin, cos := math.Sincos(angle)
		vertices[i] = Point{X: cos, Y: sin}
	}
	return vertices
}
