package fixed

import "math/bits"

// Sqrt returns the square root of v, rounded down to the nearest unit.
// Negative inputs return 0.
func Sqrt(v Scalar) Scalar {
	if v <= 0 {
		return 0
	}
	// The result r satisfies r*r <= v<<Bits. Its integral bits are found
	// first, then the fractional bits are refined from the highest down.
	n := uint64(v) << Bits
	var r uint64
	for bit := uint64(1) << (Bits + 7); bit != 0; bit >>= 1 {
		if c := r | bit; c*c <= n {
			r = c
		}
	}
	return Scalar(r)
}

// SqrtLong returns the square root of a non-negative Scalar-scaled value
// held in 64 bits, such as a dot product accumulated with Mul64. The result
// saturates at Max.
func SqrtLong(v int64) Scalar {
	if v <= 0 {
		return 0
	}
	nHi, nLo := uint64(v)>>(64-Bits), uint64(v)<<Bits
	var r uint64
	for bit := uint64(1) << 31; bit != 0; bit >>= 1 {
		c := r | bit
		hi, lo := bits.Mul64(c, c)
		if hi < nHi || (hi == nHi && lo <= nLo) {
			r = c
		}
	}
	return Scalar(min(r, uint64(Max)))
}

// Pow returns base raised to the integer part of exp. A negative exponent
// returns the reciprocal of the positive power. The result saturates.
func Pow(base, exp Scalar) Scalar {
	n := int(exp >> Bits)
	neg := n < 0
	if neg {
		n = -n
	}

	acc := int64(One)
	b := int64(base)
	for n > 0 {
		if n&1 == 1 {
			acc = Clamp(Mul64(acc, b), int64(Min), int64(Max))
		}
		n >>= 1
		if n > 0 {
			b = Clamp(Mul64(b, b), int64(Min), int64(Max))
		}
	}

	if neg {
		return Reciprocal(Scalar(acc))
	}
	return Scalar(acc)
}
