package understory

// Aabb is an axis-aligned bounding box in 2D, generic over the coordinate
// type. The zero value is an empty box at the origin.
type Aabb[T Scalar] struct {
	MinX, MinY, MaxX, MaxY T
}

// NewAabb creates an AABB from min/max corners.
func NewAabb[T Scalar](minX, minY, maxX, maxY T) Aabb[T] {
	return Aabb[T]{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// AabbFromXYWH creates an AABB from an origin and a size.
func AabbFromXYWH[T Scalar](x, y, w, h T) Aabb[T] {
	return Aabb[T]{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// ContainsPoint reports whether the box contains the point. Edges are part
// of the box.
func (b Aabb[T]) ContainsPoint(x, y T) bool {
	return b.MinX <= x && b.MinY <= y && x <= b.MaxX && y <= b.MaxY
}

// Overlaps reports whether two boxes overlap in any way. The edge of a box
// is considered part of it, so two boxes that share an edge overlap.
func (b Aabb[T]) Overlaps(o Aabb[T]) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Intersect returns the coordinate-wise intersection of two boxes. The
// result may be inverted (empty) if the boxes do not overlap.
func (b Aabb[T]) Intersect(o Aabb[T]) Aabb[T] {
	return Aabb[T]{
		MinX: maxT(b.MinX, o.MinX),
		MinY: maxT(b.MinY, o.MinY),
		MaxX: minT(b.MaxX, o.MaxX),
		MaxY: minT(b.MaxY, o.MaxY),
	}
}

// Union returns the smallest box enclosing both boxes.
func (b Aabb[T]) Union(o Aabb[T]) Aabb[T] {
	return Aabb[T]{
		MinX: minT(b.MinX, o.MinX),
		MinY: minT(b.MinY, o.MinY),
		MaxX: maxT(b.MaxX, o.MaxX),
		MaxY: maxT(b.MaxY, o.MaxY),
	}
}

// IsEmpty reports whether the box is empty or inverted (no area). Assumes
// no NaNs.
func (b Aabb[T]) IsEmpty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}

// Area computes the area of a box in the widened accumulator type.
// Inverted boxes have zero area.
func Area[T Scalar, A Acc](ar Arith[T, A], b Aabb[T]) A {
	var zero T
	w := maxT(b.MaxX-b.MinX, zero)
	h := maxT(b.MaxY-b.MinY, zero)
	return ar.Widen(w) * ar.Widen(h)
}
