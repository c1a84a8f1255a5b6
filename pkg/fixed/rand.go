package fixed

// Rand is a small deterministic pseudo-random generator (a 32-bit linear
// congruential generator). The zero value is not usable; use NewRand.
// A Rand is not safe for concurrent use.
type Rand struct {
	state uint32
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Seed resets the generator state.
func (r *Rand) Seed(seed uint32) {
	r.state = seed
}

// Uint32 returns the next raw 32-bit value.
func (r *Rand) Uint32() uint32 {
	r.state = r.state*1103515245 + 12345
	return r.state
}

// Intn returns a value in [0, n). Intn returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	// the low bits of an LCG are weak
	return int(r.Uint32()>>8) % n
}

// Scalar returns a value in [0, One).
func (r *Rand) Scalar() Scalar {
	return Scalar(r.Uint32() >> (32 - Bits))
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi Scalar) Scalar {
	if hi <= lo {
		return lo
	}
	return lo + Scalar(int64(r.Scalar())*int64(hi-lo)>>Bits)
}
