package understory

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertAffine(t *testing.T, name string, got, want Affine) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertRectNear(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if math.Abs(got.X0-want.X0) > epsilon || math.Abs(got.Y0-want.Y0) > epsilon ||
		math.Abs(got.X1-want.X1) > epsilon || math.Abs(got.Y1-want.Y1) > epsilon {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// --- Constructors ---

func TestAffineConstructors(t *testing.T) {
	assertAffine(t, "translate", TranslateAffine(10, 20), Affine{1, 0, 0, 1, 10, 20})
	assertAffine(t, "scale", ScaleAffine(2, 3), Affine{2, 0, 0, 3, 0, 0})
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertAffine(t, "rot90", RotateAffine(math.Pi/2), Affine{0, 1, -1, 0, 0, 0})
}

func TestAffineIsZero(t *testing.T) {
	if !(Affine{}).IsZero() {
		t.Error("zero matrix should report IsZero")
	}
	if IdentityAffine.IsZero() {
		t.Error("identity should not report IsZero")
	}
}

// --- Mul ---

func TestAffineMulIdentity(t *testing.T) {
	m := TranslateAffine(5, 7).Mul(RotateAffine(0.3))
	assertAffine(t, "id*m", IdentityAffine.Mul(m), m)
	assertAffine(t, "m*id", m.Mul(IdentityAffine), m)
}

func TestAffineMulOrder(t *testing.T) {
	// Translate then scale is not scale then translate.
	ts := TranslateAffine(10, 0).Mul(ScaleAffine(2, 2))
	st := ScaleAffine(2, 2).Mul(TranslateAffine(10, 0))
	x, y := ts.Apply(1, 1)
	assertNear(t, "ts.x", x, 12)
	assertNear(t, "ts.y", y, 2)
	x, y = st.Apply(1, 1)
	assertNear(t, "st.x", x, 22)
	assertNear(t, "st.y", y, 2)
}

// --- Invert ---

func TestAffineInvertRoundTrip(t *testing.T) {
	m := TranslateAffine(30, -12).Mul(RotateAffine(0.7)).Mul(ScaleAffine(2, 0.5))
	inv := m.Invert()
	x, y := m.Apply(3, 4)
	bx, by := inv.Apply(x, y)
	assertNear(t, "x", bx, 3)
	assertNear(t, "y", by, 4)
	assertAffine(t, "m*inv", m.Mul(inv), IdentityAffine)
}

func TestAffineInvertSingular(t *testing.T) {
	singular := ScaleAffine(0, 1)
	assertAffine(t, "singular", singular.Invert(), IdentityAffine)
}

// --- TransformRect ---

func TestTransformRectTranslate(t *testing.T) {
	got := TranslateAffine(10, 20).TransformRect(NewRect(0, 0, 5, 5))
	assertRectNear(t, "translated", got, Rect{10, 20, 15, 25})
}

func TestTransformRectScaleNegative(t *testing.T) {
	// A flip must still produce a well-ordered rect.
	got := ScaleAffine(-1, 1).TransformRect(NewRect(1, 2, 3, 4))
	assertRectNear(t, "flipped", got, Rect{-3, 2, -1, 4})
}

func TestTransformRectRotation45Conservative(t *testing.T) {
	// A unit square rotated 45 degrees has a bounding box sqrt(2) wide,
	// centered where the square's center lands.
	m := RotateAffine(math.Pi / 4)
	got := m.TransformRect(NewRect(-0.5, -0.5, 0.5, 0.5))
	r := math.Sqrt2 / 2
	assertRectNear(t, "rot45", got, Rect{-r, -r, r, r})
}
