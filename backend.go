package understory

// Backend is the spatial strategy abstraction used by Index. A backend
// stores the AABB of each slot and answers point and rectangle queries
// over them. Slots are dense non-negative integers managed by the caller;
// a backend never interprets them.
//
// Four implementations ship with the package: FlatVec (linear scan), Grid
// (uniform buckets), RTree and BVH (SAH-split hierarchies). All of them
// guarantee the same query results; they differ only in cost profile.
type Backend[T Scalar] interface {
	// Insert adds a slot with its AABB.
	Insert(slot int, box Aabb[T])
	// Update replaces the AABB of an existing slot. Updating an unknown
	// slot behaves like Insert.
	Update(slot int, box Aabb[T])
	// Remove deletes a slot. Removing an unknown slot is a no-op.
	Remove(slot int)
	// Clear removes all slots.
	Clear()
	// VisitPoint calls fn for every slot whose AABB contains the point.
	// Order is backend-dependent.
	VisitPoint(x, y T, fn func(slot int))
	// VisitRect calls fn exactly once for every slot whose AABB overlaps
	// the rectangle (edge-inclusive). Order is backend-dependent.
	VisitRect(box Aabb[T], fn func(slot int))
}

// CollectPoint runs a point query and collects the matching slots.
func CollectPoint[T Scalar](b Backend[T], x, y T) []int {
	var out []int
	b.VisitPoint(x, y, func(slot int) { out = append(out, slot) })
	return out
}

// CollectRect runs a rectangle query and collects the matching slots.
func CollectRect[T Scalar](b Backend[T], box Aabb[T]) []int {
	var out []int
	b.VisitRect(box, func(slot int) { out = append(out, slot) })
	return out
}
