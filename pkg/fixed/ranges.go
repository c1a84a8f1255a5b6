package fixed

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap maps v into the half-open range [lo, hi) by adding or subtracting
// multiples of the range width. Wrap returns lo when the range is empty.
func Wrap[T constraints.Signed](v, lo, hi T) T {
	width := hi - lo
	if width <= 0 {
		return lo
	}
	r := (v - lo) % width
	if r < 0 {
		r += width
	}
	return lo + r
}

// Normalize is Wrap specialised to Scalars. Angles, texture coordinates and
// other periodic values pass through it.
func Normalize(v, lo, hi Scalar) Scalar {
	return Wrap(v, lo, hi)
}

// Abs returns the absolute value of v. Abs of the minimum value of T
// overflows and returns it unchanged.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Min3 returns the smallest of three values.
func Min3[T constraints.Ordered](a, b, c T) T {
	return min(a, b, c)
}

// Max3 returns the largest of three values.
func Max3[T constraints.Ordered](a, b, c T) T {
	return max(a, b, c)
}

// Sign returns -1, 0 or +1.
func Sign[T constraints.Signed](v T) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
