package understory

import "math"

// Scalar is the set of coordinate types supported by the spatial index.
type Scalar interface {
	float32 | float64 | int32
}

// Acc is the set of widened accumulator types used for area and SAH cost
// math. Each Scalar pairs with an Acc wide enough to hold the product of
// two coordinate spans without precision loss: float32 and float64
// accumulate in float64, int32 accumulates in int64.
type Acc interface {
	float64 | int64
}

// Arith supplies the scalar operations that cannot be written generically
// over the Scalar type set: midpoints (overflow-free for integers) and the
// widening conversions used for area accumulation.
//
// The zero-size kits F32, F64, and I32 implement Arith for the three
// supported coordinate types.
type Arith[T Scalar, A Acc] interface {
	// Mid returns the midpoint of a and b. Integer implementations must
	// not overflow for any inputs.
	Mid(a, b T) T
	// Widen converts a scalar to the accumulator type.
	Widen(v T) A
	// AccOf converts an item count to the accumulator type (SAH weighting).
	AccOf(n int) A
}

// GridArith supplies the grid cell mapping for a coordinate type. It is
// kept separate from Arith so the grid backend can use type-specific logic
// (Euclidean division for integers, truncate-and-correct for floats).
type GridArith[T Scalar] interface {
	// CellCoord maps a coordinate to a grid cell index along one axis.
	// The mapping rounds toward negative infinity (floor semantics), is
	// monotonic in value for a fixed origin and cell size, and saturates
	// at the int32 range instead of overflowing.
	CellCoord(value, origin, cellSize T) int32
}

// F32 is the arithmetic kit for float32 coordinates (float64 accumulator).
type F32 struct{}

// F64 is the arithmetic kit for float64 coordinates.
type F64 struct{}

// I32 is the arithmetic kit for int32 coordinates (int64 accumulator).
type I32 struct{}

func (F32) Mid(a, b float32) float32 { return 0.5 * (a + b) }
func (F32) Widen(v float32) float64 { return float64(v) }
func (F32) AccOf(n int) float64 { return float64(n) }

func (F32) CellCoord(value, origin, cellSize float32) int32 {
	t := (value - origin) / cellSize
	if t >= float32(math.MaxInt32) {
		return math.MaxInt32
	}
	if t <= float32(math.MinInt32) {
		return math.MinInt32
	}
	c := int32(t)
	// The conversion truncated toward zero; correct to floor.
	if t < 0 && float32(c) > t && c > math.MinInt32 {
		c--
	}
	return c
}

func (F64) Mid(a, b float64) float64 { return 0.5 * (a + b) }
func (F64) Widen(v float64) float64 { return v }
func (F64) AccOf(n int) float64 { return float64(n) }

func (F64) CellCoord(value, origin, cellSize float64) int32 {
	t := (value - origin) / cellSize
	if t >= float64(math.MaxInt32) {
		return math.MaxInt32
	}
	if t <= float64(math.MinInt32) {
		return math.MinInt32
	}
	c := int32(t)
	if t < 0 && float64(c) > t && c > math.MinInt32 {
		c--
	}
	return c
}

// Mid averages without overflow: (a & b) + ((a ^ b) >> 1).
func (I32) Mid(a, b int32) int32 { return (a & b) + ((a ^ b) >> 1) }
func (I32) Widen(v int32) int64 { return int64(v) }
func (I32) AccOf(n int) int64 { return int64(n) }

func (I32) CellCoord(value, origin, cellSize int32) int32 {
	rel := int64(value) - int64(origin)
	cs := int64(cellSize)
	// Euclidean division rounds toward negative infinity for positive
	// divisors, matching floor for all integer inputs.
	c := rel / cs
	if rel%cs != 0 && rel < 0 {
		c--
	}
	if c >= math.MaxInt32 {
		return math.MaxInt32
	}
	if c <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(c)
}

func minT[T Scalar](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func maxT[T Scalar](a, b T) T {
	if b > a {
		return b
	}
	return a
}

// isqrtCeil returns the square root of n, rounded up.
func isqrtCeil(n int) int {
	if n <= 1 {
		return n
	}
	s := int(math.Sqrt(float64(n)))
	for s*s < n {
		s++
	}
	for (s-1)*(s-1) >= n {
		s--
	}
	return s
}
