// Package geom provides the small set of 2D primitives shared by the
// layout engine: vectors, axis-aligned rectangles, and the handful of
// operations the spatial algorithms need. Everything is float64 and
// value-typed; there is no hidden state.
package geom

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared length of v, avoiding the square root.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// IsFinite reports whether both components are finite (no NaN, no Inf).
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Rect is an axis-aligned rectangle given by its min and max corners.
// A Rect with Min components greater than Max components is considered
// empty; EmptyRect returns the canonical empty rectangle that absorbs
// nothing and unions to its operand.
type Rect struct {
	Min, Max Vec2
}

// RectFromMinMax constructs a rectangle from two corners.
func RectFromMinMax(min, max Vec2) Rect { return Rect{Min: min, Max: max} }

// RectFromCenterSize constructs a rectangle centered on c with the given
// width and height.
func RectFromCenterSize(c Vec2, w, h float64) Rect {
	return Rect{
		Min: Vec2{c.X - w/2, c.Y - h/2},
		Max: Vec2{c.X + w/2, c.Y + h/2},
	}
}

// EmptyRect returns the identity element for Union.
func EmptyRect() Rect {
	return Rect{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// MaxDim returns the larger of width and height.
func (r Rect) MaxDim() float64 {
	return math.Max(r.Width(), r.Height())
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether r and o overlap, boundary contact included.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Intersect returns the overlapping region of r and o. The result is
// only meaningful when Intersects(o) is true.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether the point p lies inside r, boundary included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{
		Min: Vec2{r.Min.X - m, r.Min.Y - m},
		Max: Vec2{r.Max.X + m, r.Max.Y + m},
	}
}

// Translate shifts the rectangle by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// ExtendWith grows the rectangle to include the point p.
func (r Rect) ExtendWith(p Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Vec2{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Quarter splits the rectangle into its four quadrants in the order
// top-left, top-right, bottom-left, bottom-right.
func (r Rect) Quarter() [4]Rect {
	c := r.Center()
	dx := Vec2{c.X - r.Min.X, 0}
	dy := Vec2{0, c.Y - r.Min.Y}
	return [4]Rect{
		{Min: r.Min, Max: c},
		{Min: r.Min.Add(dx), Max: c.Add(dx)},
		{Min: r.Min.Add(dy), Max: c.Add(dy)},
		{Min: c, Max: r.Max},
	}
}
