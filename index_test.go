package understory

import "testing"

func newTestIndex() *Index[float64, string] {
	return NewIndex[float64, string](NewFlatVec[float64]())
}

// --- Staging and commit ---

func TestIndexInsertInvisibleUntilCommit(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](0, 0, 10, 10), "a")
	if got := ix.QueryPoint(5, 5); len(got) != 0 {
		t.Fatalf("staged entry visible before commit: %v", got)
	}
	damage := ix.Commit()
	if len(damage.Added) != 1 {
		t.Fatalf("Added = %d, want 1", len(damage.Added))
	}
	got := ix.QueryPoint(5, 5)
	if len(got) != 1 || got[0] != key {
		t.Fatalf("QueryPoint = %v, want [%v]", got, key)
	}
}

func TestIndexAddThenRemoveElided(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](0, 0, 10, 10), "a")
	ix.Remove(key)
	damage := ix.Commit()
	if !damage.IsEmpty() {
		t.Fatalf("add-then-remove produced damage: %+v", damage)
	}
	if len(ix.QueryPoint(5, 5)) != 0 {
		t.Fatal("elided entry reachable by query")
	}
	if ix.Contains(key) {
		t.Fatal("elided key still resolves")
	}
}

func TestIndexUpdateReportsMove(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](0, 0, 10, 10), "a")
	ix.Commit()

	ix.Update(key, NewAabb[float64](20, 20, 30, 30))
	damage := ix.Commit()
	if len(damage.Moved) != 1 {
		t.Fatalf("Moved = %d, want 1", len(damage.Moved))
	}
	if damage.Moved[0][0] != NewAabb[float64](0, 0, 10, 10) ||
		damage.Moved[0][1] != NewAabb[float64](20, 20, 30, 30) {
		t.Fatalf("move pair = %+v", damage.Moved[0])
	}
	if len(ix.QueryPoint(5, 5)) != 0 {
		t.Fatal("entry still found at old box")
	}
	if len(ix.QueryPoint(25, 25)) != 1 {
		t.Fatal("entry missing at new box")
	}
}

func TestIndexUpdateBackToStartNoMove(t *testing.T) {
	ix := newTestIndex()
	box := NewAabb[float64](0, 0, 10, 10)
	key := ix.Insert(box, "a")
	ix.Commit()

	// First update snapshots the committed box; moving away and back
	// means nothing changed.
	ix.Update(key, NewAabb[float64](50, 50, 60, 60))
	ix.Update(key, box)
	damage := ix.Commit()
	if len(damage.Moved) != 0 {
		t.Fatalf("round-trip move reported: %+v", damage.Moved)
	}
}

func TestIndexUpdateWhileAddedStaysAdded(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](0, 0, 10, 10), "a")
	ix.Update(key, NewAabb[float64](100, 100, 110, 110))
	damage := ix.Commit()
	if len(damage.Added) != 1 || len(damage.Moved) != 0 {
		t.Fatalf("Added = %d Moved = %d, want 1 and 0", len(damage.Added), len(damage.Moved))
	}
	if damage.Added[0] != NewAabb[float64](100, 100, 110, 110) {
		t.Fatalf("Added box = %+v, want the updated one", damage.Added[0])
	}
}

func TestIndexRemoveCommittedReportsDamage(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](0, 0, 10, 10), "a")
	ix.Commit()
	ix.Remove(key)
	if ix.Contains(key) {
		t.Fatal("entry resolvable after staged removal")
	}
	damage := ix.Commit()
	if len(damage.Removed) != 1 {
		t.Fatalf("Removed = %d, want 1", len(damage.Removed))
	}
	if len(ix.QueryPoint(5, 5)) != 0 {
		t.Fatal("removed entry reachable post-commit")
	}
}

// --- Generational keys ---

func TestIndexStaleKeyAfterSlotReuse(t *testing.T) {
	ix := newTestIndex()
	old := ix.Insert(NewAabb[float64](0, 0, 10, 10), "old")
	ix.Commit()
	ix.Remove(old)
	ix.Commit()

	reused := ix.Insert(NewAabb[float64](0, 0, 10, 10), "new")
	ix.Commit()
	if reused.Slot != old.Slot {
		t.Fatalf("expected slot reuse, got slot %d vs %d", reused.Slot, old.Slot)
	}
	if reused.Gen <= old.Gen {
		t.Fatalf("generation must strictly increase: %d then %d", old.Gen, reused.Gen)
	}
	if ix.Contains(old) {
		t.Fatal("stale key resolves after reuse")
	}
	if _, payload, ok := ix.Get(reused); !ok || payload != "new" {
		t.Fatalf("Get(reused) = %v %v", payload, ok)
	}
	// A stale key must not mutate the new occupant.
	ix.Update(old, NewAabb[float64](500, 500, 510, 510))
	if box, _ := ix.Bounds(reused); box != NewAabb[float64](0, 0, 10, 10) {
		t.Fatalf("stale update touched live entry: %+v", box)
	}
}

func TestIndexGenerationSurvivesImmediateFree(t *testing.T) {
	// Free-before-commit must still burn the generation so the next
	// occupant never aliases the discarded key.
	ix := newTestIndex()
	a := ix.Insert(NewAabb[float64](0, 0, 1, 1), "a")
	ix.Remove(a)
	b := ix.Insert(NewAabb[float64](0, 0, 1, 1), "b")
	if a.Slot == b.Slot && b.Gen <= a.Gen {
		t.Fatalf("reused slot kept generation: %+v then %+v", a, b)
	}
	if ix.Contains(a) {
		t.Fatal("discarded key resolves")
	}
}

// --- Accessors ---

func TestIndexGetAndSetPayload(t *testing.T) {
	ix := newTestIndex()
	key := ix.Insert(NewAabb[float64](1, 2, 3, 4), "first")
	box, payload, ok := ix.Get(key)
	if !ok || payload != "first" || box != NewAabb[float64](1, 2, 3, 4) {
		t.Fatalf("Get = %+v %q %v", box, payload, ok)
	}
	ix.SetPayload(key, "second")
	if _, payload, _ := ix.Get(key); payload != "second" {
		t.Fatalf("payload = %q, want second", payload)
	}
	ix.SetPayload(Key{Slot: 99, Gen: 1}, "nope") // stale: no-op
}

func TestIndexLenAndReserve(t *testing.T) {
	ix := newTestIndex()
	ix.Reserve(16)
	a := ix.Insert(NewAabb[float64](0, 0, 1, 1), "a")
	ix.Insert(NewAabb[float64](0, 0, 1, 1), "b")
	if ix.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ix.Len())
	}
	ix.Remove(a)
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after immediate free", ix.Len())
	}
}

func TestIndexDamageUnion(t *testing.T) {
	d := IndexDamage[float64]{
		Added:   []Aabb[float64]{NewAabb[float64](0, 0, 1, 1)},
		Removed: []Aabb[float64]{NewAabb[float64](10, 10, 11, 11)},
		Moved:   [][2]Aabb[float64]{{NewAabb[float64](-5, 0, 0, 1), NewAabb[float64](0, -5, 1, 0)}},
	}
	got := d.Union()
	want := NewAabb[float64](-5, -5, 11, 11)
	if got != want {
		t.Fatalf("Union = %+v, want %+v", got, want)
	}
	var empty IndexDamage[float64]
	if !empty.IsEmpty() {
		t.Fatal("zero damage should be empty")
	}
}
