package understory

import (
	"math"
	"testing"
)

// --- Contains / Overlaps ---

func TestAabbContainsPointEdges(t *testing.T) {
	b := NewAabb[float64](0, 0, 10, 10)
	cases := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0, 0, true},
		{10, 10, true},
		{0, 10, true},
		{10.0001, 5, false},
		{-0.0001, 5, false},
	}
	for _, c := range cases {
		if got := b.ContainsPoint(c.x, c.y); got != c.want {
			t.Errorf("ContainsPoint(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestAabbOverlapsSharedEdge(t *testing.T) {
	a := NewAabb[int32](0, 0, 10, 10)
	b := NewAabb[int32](10, 0, 20, 10)
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("boxes sharing an edge must overlap")
	}
	c := NewAabb[int32](11, 0, 20, 10)
	if a.Overlaps(c) {
		t.Error("separated boxes must not overlap")
	}
}

func TestAabbOverlapsContainment(t *testing.T) {
	outer := NewAabb[float32](0, 0, 100, 100)
	inner := NewAabb[float32](40, 40, 60, 60)
	if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
		t.Error("containment is overlap")
	}
}

// --- Intersect / Union ---

func TestAabbIntersect(t *testing.T) {
	a := NewAabb[float64](0, 0, 10, 10)
	b := NewAabb[float64](5, 5, 15, 15)
	got := a.Intersect(b)
	want := NewAabb[float64](5, 5, 10, 10)
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
}

func TestAabbIntersectDisjointIsEmpty(t *testing.T) {
	a := NewAabb[float64](0, 0, 1, 1)
	b := NewAabb[float64](5, 5, 6, 6)
	if !a.Intersect(b).IsEmpty() {
		t.Error("intersection of disjoint boxes must be empty")
	}
}

func TestAabbUnion(t *testing.T) {
	a := NewAabb[int32](-5, 0, 1, 1)
	b := NewAabb[int32](0, -3, 6, 6)
	got := a.Union(b)
	want := NewAabb[int32](-5, -3, 6, 6)
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

// --- IsEmpty / Area ---

func TestAabbIsEmptyDegenerate(t *testing.T) {
	if !NewAabb[float64](3, 3, 3, 10).IsEmpty() {
		t.Error("zero-width box is empty")
	}
	if !NewAabb[float64](3, 3, 10, 3).IsEmpty() {
		t.Error("zero-height box is empty")
	}
	if NewAabb[float64](0, 0, 1, 1).IsEmpty() {
		t.Error("proper box is not empty")
	}
}

func TestAreaWidensInt32(t *testing.T) {
	// 100000 * 100000 overflows int32 but not the int64 accumulator.
	b := NewAabb[int32](0, 0, 100000, 100000)
	if got := Area[int32, int64](I32{}, b); got != 10_000_000_000 {
		t.Errorf("Area = %d, want 10000000000", got)
	}
}

func TestAreaInvertedIsZero(t *testing.T) {
	b := NewAabb[float64](10, 10, 0, 0)
	if got := Area[float64, float64](F64{}, b); got != 0 {
		t.Errorf("Area of inverted box = %v, want 0", got)
	}
}

func TestAreaFloat32WidensToFloat64(t *testing.T) {
	b := NewAabb[float32](0, 0, 1e5, 1e5)
	got := Area[float32, float64](F32{}, b)
	if math.Abs(got-1e10) > 1 {
		t.Errorf("Area = %v, want 1e10", got)
	}
}

func TestAabbFromXYWH(t *testing.T) {
	got := AabbFromXYWH[float64](2, 3, 4, 5)
	want := NewAabb[float64](2, 3, 6, 8)
	if got != want {
		t.Errorf("AabbFromXYWH = %+v, want %+v", got, want)
	}
}
