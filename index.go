package understory

// Key addresses an entry in an Index. Keys are generational: once the
// entry is removed the key goes stale, and a stale key reads as not
// found even after the slot is reused.
type Key struct {
	Slot, Gen uint32
}

type indexMark uint8

const (
	markNone indexMark = iota
	markAdded
	markUpdated
	markRemoved
)

type indexEntry[T Scalar, P any] struct {
	live    bool
	mark    indexMark
	box     Aabb[T]
	prev    Aabb[T] // previous box, meaningful only while mark == markUpdated
	payload P
}

// Index is a generational arena of AABBs with opaque payloads over a
// pluggable spatial backend. Mutations are staged: Insert, Update and
// Remove record intent against the arena, and Commit materializes the
// batch into the backend while reporting which boxes were added, removed
// or moved. Queries reflect the backend, so they see the world as of the
// most recent Commit.
type Index[T Scalar, P any] struct {
	entries []indexEntry[T, P]
	// gens persists across slot reuse so a freed slot's next occupant
	// always carries a strictly higher generation.
	gens    []uint32
	free    []uint32
	backend Backend[T]
}

// NewIndex creates an Index over the given backend.
func NewIndex[T Scalar, P any](backend Backend[T]) *Index[T, P] {
	return &Index[T, P]{backend: backend}
}

// Len returns the number of live entries, staged removals included.
func (ix *Index[T, P]) Len() int {
	return len(ix.entries) - len(ix.free)
}

// Reserve grows the arena's capacity for at least n additional entries.
func (ix *Index[T, P]) Reserve(n int) {
	if cap(ix.entries)-len(ix.entries) >= n {
		return
	}
	entries := make([]indexEntry[T, P], len(ix.entries), len(ix.entries)+n)
	copy(entries, ix.entries)
	ix.entries = entries
	gens := make([]uint32, len(ix.gens), len(ix.gens)+n)
	copy(gens, ix.gens)
	ix.gens = gens
}

// Insert stages a new entry and returns its key. The entry is invisible
// to queries until Commit.
func (ix *Index[T, P]) Insert(box Aabb[T], payload P) Key {
	var slot uint32
	if n := len(ix.free); n > 0 {
		slot = ix.free[n-1]
		ix.free = ix.free[:n-1]
		ix.gens[slot]++
	} else {
		slot = uint32(len(ix.entries))
		ix.entries = append(ix.entries, indexEntry[T, P]{})
		ix.gens = append(ix.gens, 1)
	}
	ix.entries[slot] = indexEntry[T, P]{
		live:    true,
		mark:    markAdded,
		box:     box,
		payload: payload,
	}
	return Key{Slot: slot, Gen: ix.gens[slot]}
}

// entry resolves a key to its live entry, or nil when the key is stale
// or the entry has a removal staged.
func (ix *Index[T, P]) entry(key Key) *indexEntry[T, P] {
	if int(key.Slot) >= len(ix.entries) {
		return nil
	}
	e := &ix.entries[key.Slot]
	if !e.live || e.mark == markRemoved || ix.gens[key.Slot] != key.Gen {
		return nil
	}
	return e
}

// Update stages a new box for the entry. A stale key is a no-op. The
// first update after a commit snapshots the previous box so the move can
// be reported; an entry still staged as added just carries the new box.
func (ix *Index[T, P]) Update(key Key, box Aabb[T]) {
	e := ix.entry(key)
	if e == nil {
		return
	}
	if e.mark == markNone {
		e.prev = e.box
		e.mark = markUpdated
	}
	e.box = box
}

// SetPayload replaces the entry's payload without touching its box or
// staging state. A stale key is a no-op.
func (ix *Index[T, P]) SetPayload(key Key, payload P) {
	if e := ix.entry(key); e != nil {
		e.payload = payload
	}
}

// Remove stages removal of the entry. A stale key is a no-op. An entry
// inserted since the last commit is discarded immediately and produces
// no damage.
func (ix *Index[T, P]) Remove(key Key) {
	e := ix.entry(key)
	if e == nil {
		return
	}
	if e.mark == markAdded {
		ix.freeSlot(key.Slot)
		return
	}
	e.mark = markRemoved
}

func (ix *Index[T, P]) freeSlot(slot uint32) {
	ix.entries[slot] = indexEntry[T, P]{}
	ix.free = append(ix.free, slot)
}

// Bounds returns the entry's staged box. A stale key reports false.
func (ix *Index[T, P]) Bounds(key Key) (Aabb[T], bool) {
	if e := ix.entry(key); e != nil {
		return e.box, true
	}
	return Aabb[T]{}, false
}

// Get returns the entry's staged box and payload. A stale key reports
// false.
func (ix *Index[T, P]) Get(key Key) (Aabb[T], P, bool) {
	if e := ix.entry(key); e != nil {
		return e.box, e.payload, true
	}
	var zero P
	return Aabb[T]{}, zero, false
}

// Contains reports whether the key addresses a live entry.
func (ix *Index[T, P]) Contains(key Key) bool {
	return ix.entry(key) != nil
}

// Commit materializes every staged mutation into the backend, in slot
// order, and returns the batch's damage. Moves whose previous and
// current boxes are identical are not reported.
func (ix *Index[T, P]) Commit() IndexDamage[T] {
	var damage IndexDamage[T]
	for slot := range ix.entries {
		e := &ix.entries[slot]
		if !e.live {
			continue
		}
		switch e.mark {
		case markAdded:
			ix.backend.Insert(slot, e.box)
			damage.Added = append(damage.Added, e.box)
		case markUpdated:
			ix.backend.Update(slot, e.box)
			if e.prev != e.box {
				damage.Moved = append(damage.Moved, [2]Aabb[T]{e.prev, e.box})
			}
		case markRemoved:
			ix.backend.Remove(slot)
			damage.Removed = append(damage.Removed, e.box)
			ix.freeSlot(uint32(slot))
			continue
		}
		e.mark = markNone
		e.prev = Aabb[T]{}
	}
	return damage
}

// VisitPoint invokes fn for every committed entry whose box contains the
// point.
func (ix *Index[T, P]) VisitPoint(x, y T, fn func(Key, P)) {
	ix.backend.VisitPoint(x, y, func(slot int) {
		ix.visitSlot(slot, fn)
	})
}

// VisitRect invokes fn for every committed entry whose box overlaps box,
// shared edges included.
func (ix *Index[T, P]) VisitRect(box Aabb[T], fn func(Key, P)) {
	ix.backend.VisitRect(box, func(slot int) {
		ix.visitSlot(slot, fn)
	})
}

func (ix *Index[T, P]) visitSlot(slot int, fn func(Key, P)) {
	if slot < 0 || slot >= len(ix.entries) || !ix.entries[slot].live {
		panic("understory: index invariant violated: backend referenced a vacant slot")
	}
	e := &ix.entries[slot]
	fn(Key{Slot: uint32(slot), Gen: ix.gens[slot]}, e.payload)
}

// QueryPoint collects the keys of every committed entry containing the
// point. Order is unspecified.
func (ix *Index[T, P]) QueryPoint(x, y T) []Key {
	var keys []Key
	ix.VisitPoint(x, y, func(k Key, _ P) { keys = append(keys, k) })
	return keys
}

// QueryRect collects the keys of every committed entry overlapping box.
// Order is unspecified.
func (ix *Index[T, P]) QueryRect(box Aabb[T]) []Key {
	var keys []Key
	ix.VisitRect(box, func(k Key, _ P) { keys = append(keys, k) })
	return keys
}
