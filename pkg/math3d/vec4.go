// Package math3d provides fixed-point vector and matrix types for the
// software pipeline.
//
// Vectors are row vectors and are transformed as v*M. Almost every operation
// mutates its receiver and returns it so calls can be chained without
// allocating; callers own the storage and must copy a value first if they
// still need the original.
package math3d

import "github.com/taigrr/fxtrophy/pkg/fixed"

// Vec4 is a homogeneous vector. W is fixed.One for points and 0 for
// directions.
type Vec4 struct {
	X, Y, Z, W fixed.Scalar
}

// V4 creates a new Vec4.
func V4(x, y, z, w fixed.Scalar) Vec4 {
	return Vec4{x, y, z, w}
}

// Point creates a point (W = One).
func Point(x, y, z fixed.Scalar) Vec4 {
	return Vec4{x, y, z, fixed.One}
}

// Dir creates a direction (W = 0).
func Dir(x, y, z fixed.Scalar) Vec4 {
	return Vec4{x, y, z, 0}
}

// PointInt creates a point from integer coordinates.
func PointInt(x, y, z int) Vec4 {
	return Point(fixed.FromInt(x), fixed.FromInt(y), fixed.FromInt(z))
}

// PointFloat creates a point from float coordinates. Intended for loaders
// and tests, not for per-frame work.
func PointFloat(x, y, z float64) Vec4 {
	return Point(fixed.FromFloat(x), fixed.FromFloat(y), fixed.FromFloat(z))
}

// Set overwrites all four components.
func (v *Vec4) Set(x, y, z, w fixed.Scalar) *Vec4 {
	v.X, v.Y, v.Z, v.W = x, y, z, w
	return v
}

// Add adds o to v component-wise (X, Y, Z). W is left unchanged.
func (v *Vec4) Add(o Vec4) *Vec4 {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
	return v
}

// Sub subtracts o from v component-wise (X, Y, Z). W is left unchanged.
func (v *Vec4) Sub(o Vec4) *Vec4 {
	v.X -= o.X
	v.Y -= o.Y
	v.Z -= o.Z
	return v
}

// Mul multiplies v by o component-wise (X, Y, Z).
func (v *Vec4) Mul(o Vec4) *Vec4 {
	v.X = fixed.Mul(v.X, o.X)
	v.Y = fixed.Mul(v.Y, o.Y)
	v.Z = fixed.Mul(v.Z, o.Z)
	return v
}

// Scale multiplies X, Y and Z by s.
func (v *Vec4) Scale(s fixed.Scalar) *Vec4 {
	v.X = fixed.Mul(v.X, s)
	v.Y = fixed.Mul(v.Y, s)
	v.Z = fixed.Mul(v.Z, s)
	return v
}

// Div divides X, Y and Z by s. A zero s is replaced by one unit.
func (v *Vec4) Div(s fixed.Scalar) *Vec4 {
	s = fixed.NonZero(s)
	v.X = fixed.Div(v.X, s)
	v.Y = fixed.Div(v.Y, s)
	v.Z = fixed.Div(v.Z, s)
	return v
}

// Negate flips the sign of X, Y and Z.
func (v *Vec4) Negate() *Vec4 {
	v.X, v.Y, v.Z = -v.X, -v.Y, -v.Z
	return v
}

// Cross sets v to a × b and returns v. v may alias a or b. W becomes 0.
func (v *Vec4) Cross(a, b Vec4) *Vec4 {
	x := cross(a.Y, b.Z, a.Z, b.Y)
	y := cross(a.Z, b.X, a.X, b.Z)
	z := cross(a.X, b.Y, a.Y, b.X)
	v.X, v.Y, v.Z, v.W = x, y, z, 0
	return v
}

func cross(a, b, c, d fixed.Scalar) fixed.Scalar {
	r := fixed.Mul64(int64(a), int64(b)) - fixed.Mul64(int64(c), int64(d))
	return fixed.Scalar(fixed.Clamp(r, int64(fixed.Min), int64(fixed.Max)))
}

// Dot returns a · b over X, Y and Z. The result keeps Scalar scaling but is
// accumulated and returned in 64 bits so squared lengths do not overflow.
func Dot(a, b Vec4) int64 {
	return (int64(a.X)*int64(b.X) +
		int64(a.Y)*int64(b.Y) +
		int64(a.Z)*int64(b.Z) +
		int64(fixed.Half)) >> fixed.Bits
}

// DotScalar is Dot narrowed to a Scalar, saturating.
func DotScalar(a, b Vec4) fixed.Scalar {
	return fixed.Scalar(fixed.Clamp(Dot(a, b), int64(fixed.Min), int64(fixed.Max)))
}

// Length returns the Euclidean length of (X, Y, Z).
func (v Vec4) Length() fixed.Scalar {
	return fixed.SqrtLong(Dot(v, v))
}

// Distance returns the distance between the points a and b.
func Distance(a, b Vec4) fixed.Scalar {
	d := a
	return d.Sub(b).Length()
}

// Normalize scales (X, Y, Z) to unit length. The divisor is length plus one
// unit, so a zero vector stays zero instead of faulting and the result is
// a hair shorter than One.
func (v *Vec4) Normalize() *Vec4 {
	l := int64(v.Length()) + 1
	v.X = fixed.Scalar(fixed.Div64(int64(v.X), l))
	v.Y = fixed.Scalar(fixed.Div64(int64(v.Y), l))
	v.Z = fixed.Scalar(fixed.Div64(int64(v.Z), l))
	return v
}

// Lerp sets v to a + (b-a)*t over all four components.
func (v *Vec4) Lerp(a, b Vec4, t fixed.Scalar) *Vec4 {
	v.X = fixed.Lerp(a.X, b.X, t)
	v.Y = fixed.Lerp(a.Y, b.Y, t)
	v.Z = fixed.Lerp(a.Z, b.Z, t)
	v.W = fixed.Lerp(a.W, b.W, t)
	return v
}

// RotateX rotates v about the X axis by deg degrees.
func (v *Vec4) RotateX(deg fixed.Scalar) *Vec4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	y, z := v.Y, v.Z
	v.Y = cross(y, c, z, s)
	v.Z = cross(y, s, -z, c)
	return v
}

// RotateY rotates v about the Y axis by deg degrees.
func (v *Vec4) RotateY(deg fixed.Scalar) *Vec4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	x, z := v.X, v.Z
	v.X = cross(x, c, -z, s)
	v.Z = cross(z, c, x, s)
	return v
}

// RotateZ rotates v about the Z axis by deg degrees.
func (v *Vec4) RotateZ(deg fixed.Scalar) *Vec4 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	x, y := v.X, v.Y
	v.X = cross(x, c, y, s)
	v.Y = cross(x, s, -y, c)
	return v
}

// Transform sets v to v*m, applying the perspective divide when m is
// projective. See Mat4.MulVec.
func (v *Vec4) Transform(m *Mat4) *Vec4 {
	*v = m.MulVec(*v)
	return v
}

// ScreenPort moves a projected point from a target-centred origin to the
// top-left origin of a width×height render target.
func (v *Vec4) ScreenPort(width, height int) *Vec4 {
	v.X += fixed.FromInt(width) >> 1
	v.Y += fixed.FromInt(height) >> 1
	return v
}

// Equal reports whether every component of a and b differs by at most tol.
func Equal(a, b Vec4, tol fixed.Scalar) bool {
	return fixed.Abs(a.X-b.X) <= tol &&
		fixed.Abs(a.Y-b.Y) <= tol &&
		fixed.Abs(a.Z-b.Z) <= tol &&
		fixed.Abs(a.W-b.W) <= tol
}
