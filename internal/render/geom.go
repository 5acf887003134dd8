package render

import "math"

// Point is a position in frame pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in frame pixels. Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints returns the rectangle spanning two corners in any order.
func RectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{X: math.Min(x1, x2), Y: math.Min(y1, y2), W: math.Abs(x2 - x1), H: math.Abs(y2 - y1)}
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Intersects reports whether two boxes overlap. Boxes that only share an edge do not:
// one box entirely left, right, above or below the other means no overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.Right() <= o.X || r.X >= o.Right() ||
		r.Bottom() <= o.Y || r.Y >= o.Bottom() {
		return false
	}
	return true
}

// Union returns the smallest box containing both.
func (r Rect) Union(o Rect) Rect {
	x1, y1 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x2, y2 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Inset shrinks r by d on every side, never below zero size.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.X, out.W = r.X+r.W/2, 0
	}
	if out.H < 0 {
		out.Y, out.H = r.Y+r.H/2, 0
	}
	return out
}
