// Package geom provides the 2D point and vector primitives shared by the
// connector router and the renderers.
//
// Coordinates follow screen conventions: x grows to the right and y grows
// downward, so an angle of 90° points down and 270° points up.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing coordinates for equality.
const Epsilon = 1e-9

// Point is a 2D coordinate. It doubles as a vector for offset arithmetic.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the Euclidean length of p as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return q.Sub(p).Len() }

// IsZero reports whether p is the zero vector.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Unit returns p normalized to length 1. The zero vector is returned unchanged.
func (p Point) Unit() Point {
	l := p.Len()
	if l < Epsilon {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Rotate rotates p by deg degrees around the origin. Positive angles rotate
// from +x toward +y.
func (p Point) Rotate(deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// Perp returns p rotated 90° counter-clockwise in the mathematical
// convention, i.e. (-y, x).
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Eq reports whether p and q are equal within Epsilon.
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Lerp returns the point at parameter t on the segment a→b.
func Lerp(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Mid returns the midpoint of a and b.
func Mid(a, b Point) Point { return Lerp(a, b, 0.5) }
