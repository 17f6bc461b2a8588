package understory

import "math"

// Point is a position in world or local space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in min/max form. A Rect is empty when
// either max coordinate is not strictly greater than its min.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a rectangle from two corner points, normalizing order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{x0, y0, x1, y1}
}

// RectXYWH builds a rectangle from an origin and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return NewRect(x, y, x+w, y+h)
}

// IsEmpty reports whether the rectangle has no interior.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Width returns the rectangle's horizontal extent, zero if empty.
func (r Rect) Width() float64 {
	if r.X1 <= r.X0 {
		return 0
	}
	return r.X1 - r.X0
}

// Height returns the rectangle's vertical extent, zero if empty.
func (r Rect) Height() float64 {
	if r.Y1 <= r.Y0 {
		return 0
	}
	return r.Y1 - r.Y0
}

// Contains reports whether the point lies inside the rectangle,
// edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Overlaps reports whether two rectangles touch or overlap. Shared edges
// count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Intersect clamps r to o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
}

// Union returns the smallest rectangle covering both. Empty inputs
// contribute nothing.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// RoundedRect is a rectangle with a uniform corner radius, used for
// clips. Only the rectangular extent participates in bounds math; the
// radius is carried for precise testing layered on top.
type RoundedRect struct {
	Rect   Rect
	Radius float64
}

// rectToAabb converts a Rect into the float64 index coordinate space.
func rectToAabb(r Rect) Aabb[float64] {
	return Aabb[float64]{MinX: r.X0, MinY: r.Y0, MaxX: r.X1, MaxY: r.Y1}
}

func aabbToRect(b Aabb[float64]) Rect {
	return Rect{X0: b.MinX, Y0: b.MinY, X1: b.MaxX, Y1: b.MaxY}
}
