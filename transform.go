package understory

import "math"

// Affine is a 2D affine matrix.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// TranslateAffine builds a pure translation.
func TranslateAffine(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// ScaleAffine builds a pure scale about the origin.
func ScaleAffine(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// RotateAffine builds a rotation about the origin by r radians.
func RotateAffine(r float64) Affine {
	sin, cos := math.Sincos(r)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// IsZero reports whether m is the all-zero matrix, the zero value of the
// type. Call sites treat a zero Affine as identity.
func (m Affine) IsZero() bool {
	return m == Affine{}
}

// Mul composes two affine matrices: result = m * c, i.e. c applied
// first.
func (m Affine) Mul(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert computes the inverse of the matrix. Returns the identity matrix
// if the matrix is singular (determinant ~ 0).
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRect returns the axis-aligned bounding box of the rectangle
// under m. Exact for axis-aligned transforms, conservative (never
// smaller) under rotation or shear.
func (m Affine) TransformRect(r Rect) Rect {
	ax0, ax1 := m[0]*r.X0, m[0]*r.X1
	cx0, cx1 := m[2]*r.Y0, m[2]*r.Y1
	bx0, bx1 := m[1]*r.X0, m[1]*r.X1
	dx0, dx1 := m[3]*r.Y0, m[3]*r.Y1
	return Rect{
		X0: math.Min(ax0, ax1) + math.Min(cx0, cx1) + m[4],
		Y0: math.Min(bx0, bx1) + math.Min(dx0, dx1) + m[5],
		X1: math.Max(ax0, ax1) + math.Max(cx0, cx1) + m[4],
		Y1: math.Max(bx0, bx1) + math.Max(dx0, dx1) + m[5],
	}
}
