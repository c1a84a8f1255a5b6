package fixed

import xfixed "golang.org/x/image/math/fixed"

// FromInt26_6 converts a 26.6 value to a Scalar.
func FromInt26_6(v xfixed.Int26_6) Scalar {
	return Scalar(v) << (Bits - 6)
}

// ToInt26_6 converts s to a 26.6 value, rounding to the nearest 1/64.
func (s Scalar) ToInt26_6() xfixed.Int26_6 {
	return xfixed.Int26_6((int64(s) + 1<<(Bits-7)) >> (Bits - 6))
}

// FromInt52_12 converts a 52.12 value to a Scalar. Values outside the Scalar
// range saturate.
func FromInt52_12(v xfixed.Int52_12) Scalar {
	return Scalar(Clamp(int64(v)<<(Bits-12), int64(Min), int64(Max)))
}

// ToInt52_12 converts s to a 52.12 value, rounding to the nearest 1/4096.
func (s Scalar) ToInt52_12() xfixed.Int52_12 {
	return xfixed.Int52_12((int64(s) + 1<<(Bits-13)) >> (Bits - 12))
}

// Point26_6 returns the 26.6 point for (x, y).
func Point26_6(x, y Scalar) xfixed.Point26_6 {
	return xfixed.Point26_6{X: x.ToInt26_6(), Y: y.ToInt26_6()}
}

// Snap rounds s to the nearest 1/64, the sub-pixel grid used for projected
// vertices.
func Snap(s Scalar) Scalar {
	return FromInt26_6(s.ToInt26_6())
}
