package math3d

import "github.com/taigrr/fxtrophy/pkg/fixed"

// All builders overwrite the caller-supplied matrix and return it.
//
// Rotations follow one right-handed convention on every axis: a positive
// angle turns +Y toward +Z about X, +Z toward +X about Y and +X toward +Y
// about Z. Angles are in degrees.

// Bounds are the six planes of a view volume. Left/Right and Top/Bottom are
// measured on the projection plane (at the focal distance for a perspective
// volume); Near and Far are distances along +Z.
type Bounds struct {
	Left, Right, Top, Bottom, Near, Far fixed.Scalar
}

// Width returns Right - Left.
func (b Bounds) Width() fixed.Scalar { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b Bounds) Height() fixed.Scalar { return b.Top - b.Bottom }

// Depth returns Far - Near.
func (b Bounds) Depth() fixed.Scalar { return b.Far - b.Near }

// Translation builds a translation matrix.
func Translation(m *Mat4, x, y, z fixed.Scalar) *Mat4 {
	m.SetIdentity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling builds a non-uniform scale matrix.
func Scaling(m *Mat4, x, y, z fixed.Scalar) *Mat4 {
	m.SetIdentity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotationX builds a rotation about the X axis.
func RotationX(m *Mat4, deg fixed.Scalar) *Mat4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	m.SetIdentity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotationY builds a rotation about the Y axis.
func RotationY(m *Mat4, deg fixed.Scalar) *Mat4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	m.SetIdentity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotationZ builds a rotation about the Z axis.
func RotationZ(m *Mat4, deg fixed.Scalar) *Mat4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	m.SetIdentity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Orthographic builds a parallel projection of b onto a width×height target.
// X maps to [-width/2, width/2] and Y is flipped so that Top maps to
// -height/2; ScreenPort then moves the origin to the top-left corner. Z maps
// Near..Far to 0..One.
func Orthographic(m *Mat4, b Bounds, width, height int) *Mat4 {
	sx := scaleTo(width, b.Width())
	sy := -scaleTo(height, b.Height())
	sz := fixed.Div64(int64(fixed.One), int64(fixed.NonZero(b.Depth())))

	cx := int64(b.Left+b.Right) >> 1
	cy := int64(b.Top+b.Bottom) >> 1

	*m = Mat4{}
	m[0] = narrow(sx)
	m[5] = narrow(sy)
	m[10] = narrow(sz)
	m[12] = narrow(-mul(cx, sx))
	m[13] = narrow(-mul(cy, sy))
	m[14] = narrow(-mul(int64(b.Near), sz))
	m[15] = fixed.One
	return m
}

// Perspective builds a perspective projection of b onto a width×height
// target. A camera-space point (x, y, z) with z > 0 projects to
// focal*x/z on the projection plane, which is then scaled from b's extent to
// the target like Orthographic. W receives z, so MulVec divides by depth and
// m[15] is 0. Depth maps Near..Far to 0..One.
func Perspective(m *Mat4, b Bounds, focal fixed.Scalar, width, height int) *Mat4 {
	sx := scaleTo(width, b.Width())
	sy := -scaleTo(height, b.Height())

	cx := int64(b.Left+b.Right) >> 1
	cy := int64(b.Top+b.Bottom) >> 1

	n, f := int64(b.Near), int64(b.Far)
	fn := int64(fixed.NonZero(b.Depth()))

	*m = Mat4{}
	m[0] = narrow(mul(int64(focal), sx))
	m[5] = narrow(mul(int64(focal), sy))
	m[8] = narrow(-mul(cx, sx))
	m[9] = narrow(-mul(cy, sy))
	m[10] = narrow(fixed.Div64(f, fn))
	m[11] = fixed.One
	m[14] = narrow(-fixed.MulDiv(n, f, fn))
	return m
}

// scaleTo returns pixels/extent with Scalar scaling.
func scaleTo(pixels int, extent fixed.Scalar) int64 {
	return fixed.Div64(int64(fixed.FromInt(pixels)), int64(fixed.NonZero(extent)))
}

// ScreenPort builds the translation that ScreenPort applies to a vector, for
// folding into a combined matrix. Only valid after the perspective divide.
func ScreenPort(m *Mat4, width, height int) *Mat4 {
	return Translation(m, fixed.FromInt(width)>>1, fixed.FromInt(height)>>1, 0)
}
