package understory

// FlatVec is the baseline backend: a dense vector of AABBs indexed by slot
// with a linear scan per query. Correct but O(n); a good default for small
// scenes and the reference the other backends are tested against.
type FlatVec[T Scalar] struct {
	slots []flatSlot[T]
}

type flatSlot[T Scalar] struct {
	box  Aabb[T]
	live bool
}

// NewFlatVec creates an empty FlatVec backend.
func NewFlatVec[T Scalar]() *FlatVec[T] {
	return &FlatVec[T]{}
}

func (f *FlatVec[T]) ensure(slot int) {
	for len(f.slots) <= slot {
		f.slots = append(f.slots, flatSlot[T]{})
	}
}

func (f *FlatVec[T]) Insert(slot int, box Aabb[T]) {
	f.ensure(slot)
	f.slots[slot] = flatSlot[T]{box: box, live: true}
}

func (f *FlatVec[T]) Update(slot int, box Aabb[T]) {
	f.Insert(slot, box)
}

func (f *FlatVec[T]) Remove(slot int) {
	if slot < len(f.slots) {
		f.slots[slot] = flatSlot[T]{}
	}
}

func (f *FlatVec[T]) Clear() {
	f.slots = f.slots[:0]
}

func (f *FlatVec[T]) VisitPoint(x, y T, fn func(slot int)) {
	for i, s := range f.slots {
		if s.live && s.box.ContainsPoint(x, y) {
			fn(i)
		}
	}
}

func (f *FlatVec[T]) VisitRect(box Aabb[T], fn func(slot int)) {
	for i, s := range f.slots {
		if s.live && s.box.Overlaps(box) {
			fn(i)
		}
	}
}
