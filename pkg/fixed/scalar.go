// Package fixed provides the integer fixed-point arithmetic used by every
// stage of the fxtrophy pipeline.
//
// A Scalar is a signed Q16.16 number stored in an int32: 16 integer bits and
// 16 fractional bits. A Long is the wider Q32.32 variant stored in an int64
// and is used where values are accumulated over many steps (edge and span
// slopes in the rasterizer).
//
// All products and quotients widen to 64 (or 128) bits before narrowing, and
// results are rounded by adding half a unit before the final shift.
package fixed

import "math"

// Scalar is a Q16.16 fixed-point number.
type Scalar int32

// Scalar constants.
const (
	// Bits is the number of fractional bits in a Scalar.
	Bits = 16

	// One is 1.0 as a Scalar.
	One Scalar = 1 << Bits

	// Half is 0.5 as a Scalar.
	Half Scalar = 1 << (Bits - 1)

	// Mask selects the fractional part of a Scalar.
	Mask Scalar = One - 1

	// Max and Min are the largest and smallest representable Scalars.
	Max Scalar = math.MaxInt32
	Min Scalar = math.MinInt32

	// Epsilon is the smallest positive Scalar (one unit in the last place).
	Epsilon Scalar = 1
)

// FromInt converts an integer to a Scalar.
func FromInt(n int) Scalar {
	return Scalar(n << Bits)
}

// FromFloat converts a float64 to a Scalar, truncating toward zero.
func FromFloat(f float64) Scalar {
	return Scalar(f * float64(One))
}

// FromFraction returns num/den as a Scalar, rounded.
func FromFraction(num, den int) Scalar {
	return Div(FromInt(num), FromInt(den))
}

// Float returns s as a float64.
func (s Scalar) Float() float64 {
	return float64(s) / float64(One)
}

// Int returns the integer part of s, rounding toward negative infinity.
func (s Scalar) Int() int {
	return int(s >> Bits)
}

// Round returns s rounded to the nearest integer, halves rounding up.
func (s Scalar) Round() int {
	return int((int64(s) + int64(Half)) >> Bits)
}

// Ceil returns the smallest integer greater than or equal to s.
func (s Scalar) Ceil() int {
	return int((int64(s) + int64(Mask)) >> Bits)
}

// Frac returns the fractional part of s, always in [0, One).
func (s Scalar) Frac() Scalar {
	return s & Mask
}

// Mul returns round(a*b / One) computed with a 64-bit intermediate.
func Mul(a, b Scalar) Scalar {
	return Scalar((int64(a)*int64(b) + int64(Half)) >> Bits)
}

// Mul64 is Mul without narrowing the result back to 32 bits. It is used for
// sums of products (dot products, determinants) that would overflow a Scalar
// before the final value is known.
func Mul64(a, b int64) int64 {
	return (a*b + int64(Half)) >> Bits
}

// Div returns round((a << Bits) / b).
//
// Div does not guard against b == 0; callers decide the degenerate-geometry
// policy, normally by passing the denominator through NonZero.
func Div(a, b Scalar) Scalar {
	return Scalar(Div64(int64(a), int64(b)))
}

// Div64 is Div on 64-bit operands. The rounding bias is applied by computing
// one extra quotient bit and shifting it away. The extra bit comes from a
// floored quotient so negative results round the same way as positive ones.
func Div64(a, b int64) int64 {
	n := a << (Bits + 1)
	q := n / b
	if n%b != 0 && (n < 0) != (b < 0) {
		q--
	}
	return (q + 1) >> 1
}

// NonZero returns v, or 1 (one unit in the last place) when v is zero.
// This is the substitution used wherever a geometric denominator may vanish.
func NonZero[T ~int32 | ~int64](v T) T {
	if v == 0 {
		return 1
	}
	return v
}

// Reciprocal returns 1/v, substituting NonZero for a zero argument.
func Reciprocal(v Scalar) Scalar {
	return Div(One, NonZero(v))
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t Scalar) Scalar {
	return a + Mul(b-a, t)
}
