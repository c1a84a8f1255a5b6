package fixed

import "math/bits"

// Long is a Q32.32 fixed-point number. The rasterizer keeps edge positions,
// slopes and interpolated attributes in this format so that the error of a
// value accumulated over a full screen of steps stays well below one Scalar
// unit.
type Long int64

// Long constants.
const (
	// LongBits is the number of fractional bits in a Long.
	LongBits = 32

	// LongOne is 1.0 as a Long.
	LongOne Long = 1 << LongBits

	// LongHalf is 0.5 as a Long.
	LongHalf Long = 1 << (LongBits - 1)

	// extraBits is the shift between Scalar and Long precision.
	extraBits = LongBits - Bits
)

// ToLong widens a Scalar to a Long without loss.
func (s Scalar) ToLong() Long {
	return Long(s) << extraBits
}

// LongFromInt converts an integer to a Long.
func LongFromInt(n int) Long {
	return Long(n) << LongBits
}

// Scalar narrows l to a Scalar, rounding to nearest.
func (l Long) Scalar() Scalar {
	return Scalar((l + 1<<(extraBits-1)) >> extraBits)
}

// Int returns the integer part of l, rounding toward negative infinity.
func (l Long) Int() int {
	return int(l >> LongBits)
}

// Ceil returns the smallest integer greater than or equal to l.
func (l Long) Ceil() int {
	return int((l + LongOne - 1) >> LongBits)
}

// Float returns l as a float64.
func (l Long) Float() float64 {
	return float64(l) / float64(LongOne)
}

// MulLong returns round(a*b) in Q32.32 using a 128-bit intermediate.
// The result saturates when it does not fit in 64 bits.
func MulLong(a, b Long) Long {
	return Long(MulShift(int64(a), int64(b), LongBits))
}

// DivLong returns round(a / b) in Q32.32 using a 128-bit intermediate.
// DivLong does not guard against b == 0.
func DivLong(a, b Long) Long {
	return Long(MulDiv(int64(a), int64(LongOne), int64(b)))
}

// MulDiv returns a*b/c rounded to nearest, computing the product in 128 bits.
// The quotient saturates to the int64 range; c must not be zero.
func MulDiv(a, b, c int64) int64 {
	neg := (a < 0) != (b < 0)
	if c < 0 {
		neg = !neg
	}
	ua, ub, uc := absU64(a), absU64(b), absU64(c)

	hi, lo := bits.Mul64(ua, ub)
	// add c/2 for rounding
	var carry uint64
	lo, carry = bits.Add64(lo, uc>>1, 0)
	hi += carry
	if hi >= uc {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, uc)
	return applySign(q, neg)
}

// MulShift returns (a*b) >> shift rounded to nearest, computing the product in
// 128 bits. The result saturates to the int64 range.
func MulShift(a, b int64, shift uint) int64 {
	if shift == 0 {
		return a * b
	}
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absU64(a), absU64(b))
	var carry uint64
	lo, carry = bits.Add64(lo, 1<<(shift-1), 0)
	hi += carry
	if hi>>shift != 0 {
		return saturate(neg)
	}
	q := lo>>shift | hi<<(64-shift)
	return applySign(q, neg)
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func saturate(neg bool) int64 {
	if neg {
		return -1 << 63
	}
	return 1<<63 - 1
}

func applySign(q uint64, neg bool) int64 {
	if q > 1<<63-1 {
		return saturate(neg)
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}
