package math3d

import "github.com/taigrr/fxtrophy/pkg/fixed"

// Mat4 is a 4x4 fixed-point matrix stored in row-major order and applied to
// row vectors (v' = v*M).
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For a transform matrix:
// | Xx Xy Xz 0 |   X,Y,Z = basis vectors (rotation/scale)
// | Yx Yy Yz 0 |   T = translation
// | Zx Zy Zz 0 |
// | Tx Ty Tz 1 |
//
// A product a*b applies a first, then b.
type Mat4 [16]fixed.Scalar

var identity = Mat4{
	fixed.One, 0, 0, 0,
	0, fixed.One, 0, 0,
	0, 0, fixed.One, 0,
	0, 0, 0, fixed.One,
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return identity
}

// SetIdentity overwrites m with the identity matrix.
func (m *Mat4) SetIdentity() *Mat4 {
	*m = identity
	return m
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m *Mat4) IsIdentity() bool {
	return *m == identity
}

// Mul sets m to a*b and returns m. m may alias a or b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (m *Mat4) Mul(a, b *Mat4) *Mat4 {
	var r Mat4
	for row := range 4 {
		for col := range 4 {
			var sum int64
			for k := range 4 {
				sum += int64(a[row*4+k]) * int64(b[k*4+col])
			}
			r[row*4+col] = narrow((sum + int64(fixed.Half)) >> fixed.Bits)
		}
	}
	*m = r
	return m
}

// MulVec returns v*m.
//
// When m[15] is not exactly One the matrix is projective and X, Y and Z are
// additionally divided by the transformed W, with a zero W replaced by one
// unit. W itself is returned undivided so the rasterizer can recover 1/w for
// perspective-correct interpolation. Sums are accumulated in 64 bits and the
// divide is an exact 64-bit [fixed.Div64]. It is deliberately not the
// shifted reciprocal the rasterizer uses for attribute interpolation: a 1/w
// missing its low InterpolateBits bits moves projected vertices by whole
// pixels at depth, and projected positions also drive culling and depth.
func (m *Mat4) MulVec(v Vec4) Vec4 {
	x := dot4(v, m[0], m[4], m[8], m[12])
	y := dot4(v, m[1], m[5], m[9], m[13])
	z := dot4(v, m[2], m[6], m[10], m[14])
	w := dot4(v, m[3], m[7], m[11], m[15])

	if m[15] != fixed.One {
		d := fixed.NonZero(w)
		x = fixed.Div64(x, d)
		y = fixed.Div64(y, d)
		z = fixed.Div64(z, d)
	}
	return Vec4{narrow(x), narrow(y), narrow(z), narrow(w)}
}

// MulDir returns v*m for a direction: translation and the projective column
// are ignored and W is passed through.
func (m *Mat4) MulDir(v Vec4) Vec4 {
	d := Vec4{v.X, v.Y, v.Z, 0}
	return Vec4{
		narrow(dot4(d, m[0], m[4], m[8], 0)),
		narrow(dot4(d, m[1], m[5], m[9], 0)),
		narrow(dot4(d, m[2], m[6], m[10], 0)),
		v.W,
	}
}

func dot4(v Vec4, a, b, c, d fixed.Scalar) int64 {
	return (int64(v.X)*int64(a) +
		int64(v.Y)*int64(b) +
		int64(v.Z)*int64(c) +
		int64(v.W)*int64(d) +
		int64(fixed.Half)) >> fixed.Bits
}

func narrow(v int64) fixed.Scalar {
	return fixed.Scalar(fixed.Clamp(v, int64(fixed.Min), int64(fixed.Max)))
}

// Transpose sets m to the transpose of a and returns m. m may alias a.
func (m *Mat4) Transpose(a *Mat4) *Mat4 {
	*m = Mat4{
		a[0], a[4], a[8], a[12],
		a[1], a[5], a[9], a[13],
		a[2], a[6], a[10], a[14],
		a[3], a[7], a[11], a[15],
	}
	return m
}

// mul is a 128-bit safe Scalar-scaled product of two 64-bit values.
func mul(a, b int64) int64 {
	return fixed.MulShift(a, b, fixed.Bits)
}

func s64(v fixed.Scalar) int64 { return int64(v) }

// cofactors returns the sixteen cofactors of m in transposed (adjugate)
// order, accumulated in 64 bits.
func (m *Mat4) adjugate() [16]int64 {
	var a [16]int64
	for i := range 16 {
		a[i] = s64(m[i])
	}

	// 2x2 minors of the lower two rows
	s0 := mul(a[8], a[13]) - mul(a[12], a[9])
	s1 := mul(a[8], a[14]) - mul(a[12], a[10])
	s2 := mul(a[8], a[15]) - mul(a[12], a[11])
	s3 := mul(a[9], a[14]) - mul(a[13], a[10])
	s4 := mul(a[9], a[15]) - mul(a[13], a[11])
	s5 := mul(a[10], a[15]) - mul(a[14], a[11])

	// 2x2 minors of the upper two rows
	c0 := mul(a[0], a[5]) - mul(a[4], a[1])
	c1 := mul(a[0], a[6]) - mul(a[4], a[2])
	c2 := mul(a[0], a[7]) - mul(a[4], a[3])
	c3 := mul(a[1], a[6]) - mul(a[5], a[2])
	c4 := mul(a[1], a[7]) - mul(a[5], a[3])
	c5 := mul(a[2], a[7]) - mul(a[6], a[3])

	var adj [16]int64
	adj[0] = mul(a[5], s5) - mul(a[6], s4) + mul(a[7], s3)
	adj[1] = -mul(a[1], s5) + mul(a[2], s4) - mul(a[3], s3)
	adj[2] = mul(a[13], c5) - mul(a[14], c4) + mul(a[15], c3)
	adj[3] = -mul(a[9], c5) + mul(a[10], c4) - mul(a[11], c3)

	adj[4] = -mul(a[4], s5) + mul(a[6], s2) - mul(a[7], s1)
	adj[5] = mul(a[0], s5) - mul(a[2], s2) + mul(a[3], s1)
	adj[6] = -mul(a[12], c5) + mul(a[14], c2) - mul(a[15], c1)
	adj[7] = mul(a[8], c5) - mul(a[10], c2) + mul(a[11], c1)

	adj[8] = mul(a[4], s4) - mul(a[5], s2) + mul(a[7], s0)
	adj[9] = -mul(a[0], s4) + mul(a[1], s2) - mul(a[3], s0)
	adj[10] = mul(a[12], c4) - mul(a[13], c2) + mul(a[15], c0)
	adj[11] = -mul(a[8], c4) + mul(a[9], c2) - mul(a[11], c0)

	adj[12] = -mul(a[4], s3) + mul(a[5], s1) - mul(a[6], s0)
	adj[13] = mul(a[0], s3) - mul(a[1], s1) + mul(a[2], s0)
	adj[14] = -mul(a[12], c3) + mul(a[13], c1) - mul(a[14], c0)
	adj[15] = mul(a[8], c3) - mul(a[9], c1) + mul(a[10], c0)

	return adj
}

// Determinant returns the determinant of m, in 64 bits with Scalar scaling.
func (m *Mat4) Determinant() int64 {
	adj := m.adjugate()
	// first row of m times first column of the adjugate
	return mul(s64(m[0]), adj[0]) + mul(s64(m[1]), adj[4]) +
		mul(s64(m[2]), adj[8]) + mul(s64(m[3]), adj[12])
}

// Inverse sets m to the inverse of a and returns m. m may alias a.
//
// The adjugate is divided by the determinant plus one unit, so a singular
// matrix yields its (scaled) adjugate instead of faulting. For a
// well-conditioned matrix the result is within a relative 2^-16 of the exact
// inverse.
func (m *Mat4) Inverse(a *Mat4) *Mat4 {
	adj := a.adjugate()
	det := mul(s64(a[0]), adj[0]) + mul(s64(a[1]), adj[4]) +
		mul(s64(a[2]), adj[8]) + mul(s64(a[3]), adj[12])
	det = fixed.NonZero(det + 1)

	for i := range 16 {
		m[i] = narrow(fixed.MulDiv(adj[i], int64(fixed.One), det))
	}
	return m
}

// Get returns the element at (row, col).
func (m *Mat4) Get(row, col int) fixed.Scalar {
	return m[row*4+col]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val fixed.Scalar) {
	m[row*4+col] = val
}

// Translation returns the translation row as a point.
func (m *Mat4) Translation() Vec4 {
	return Point(m[12], m[13], m[14])
}

// Equal reports whether every element of a and b differs by at most tol.
func (m *Mat4) Equal(b *Mat4, tol fixed.Scalar) bool {
	for i := range 16 {
		if fixed.Abs(m[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
