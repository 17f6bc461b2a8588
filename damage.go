package understory

// IndexDamage is the coarse change set produced by one Index commit:
// boxes that entered the backend, boxes that left it, and
// (previous, current) pairs for boxes that moved. The batch is a snapshot
// owned by the caller; the Index does not retain it.
type IndexDamage[T Scalar] struct {
	Added   []Aabb[T]
	Removed []Aabb[T]
	Moved   [][2]Aabb[T]
}

// IsEmpty reports whether the commit changed nothing.
func (d *IndexDamage[T]) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0
}

// Union returns one box covering every recorded change, or a zero box if
// the damage is empty.
func (d *IndexDamage[T]) Union() Aabb[T] {
	var u Aabb[T]
	have := false
	fold := func(b Aabb[T]) {
		if !have {
			u = b
			have = true
			return
		}
		u = u.Union(b)
	}
	for _, b := range d.Added {
		fold(b)
	}
	for _, b := range d.Removed {
		fold(b)
	}
	for _, m := range d.Moved {
		fold(m[0])
		fold(m[1])
	}
	return u
}

// Damage is the set of world-space rectangles a Tree commit dirtied.
// Rects are not minimal and may overlap; a painter unions or tiles them.
type Damage struct {
	DirtyRects []Rect
}

// IsEmpty reports whether the commit dirtied nothing.
func (d *Damage) IsEmpty() bool {
	return len(d.DirtyRects) == 0
}

// UnionRect returns one rectangle covering every dirty rect, or an empty
// Rect when there is no damage.
func (d *Damage) UnionRect() Rect {
	var u Rect
	for _, r := range d.DirtyRects {
		u = u.Union(r)
	}
	return u
}

// addRect records a dirty rect, skipping empty ones.
func (d *Damage) addRect(r Rect) {
	if r.IsEmpty() {
		return
	}
	d.DirtyRects = append(d.DirtyRects, r)
}
