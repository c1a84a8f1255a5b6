package render

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// Plane is the set of points p with Normal·p + D = 0. Points with a
// positive distance lie on the side the normal points to.
type Plane struct {
	Normal math3d.Vec4
	D      fixed.Scalar
}

// Normalize scales the plane so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Length()
	if l == 0 {
		return
	}
	p.Normal.Div(l)
	p.D = fixed.Div(p.D, l)
}

// Distance returns the signed distance from the plane to a point, in units
// of the normal's length.
func (p Plane) Distance(point math3d.Vec4) int64 {
	return math3d.Dot(p.Normal, point) + int64(p.D)
}

// Planes of a ViewVolume.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// ViewVolume is the six planes of a raster.Frustum in view space, with
// normals pointing inward. It is used to reject whole meshes before any of
// their triangles are projected.
type ViewVolume struct {
	Planes [6]Plane
}

// NewViewVolume builds the planes bounding f's view volume.
func NewViewVolume(f *raster.Frustum) ViewVolume {
	b := f.Bounds()
	var v ViewVolume

	if f.Kind() == raster.Perspective {
		// side planes pass through the eye and the bounds at the focal distance
		focal := f.Focal()
		v.Planes[PlaneLeft] = Plane{Normal: math3d.Dir(focal, 0, -b.Left)}
		v.Planes[PlaneRight] = Plane{Normal: math3d.Dir(-focal, 0, b.Right)}
		v.Planes[PlaneBottom] = Plane{Normal: math3d.Dir(0, focal, -b.Bottom)}
		v.Planes[PlaneTop] = Plane{Normal: math3d.Dir(0, -focal, b.Top)}
	} else {
		v.Planes[PlaneLeft] = Plane{Normal: math3d.Dir(fixed.One, 0, 0), D: -b.Left}
		v.Planes[PlaneRight] = Plane{Normal: math3d.Dir(-fixed.One, 0, 0), D: b.Right}
		v.Planes[PlaneBottom] = Plane{Normal: math3d.Dir(0, fixed.One, 0), D: -b.Bottom}
		v.Planes[PlaneTop] = Plane{Normal: math3d.Dir(0, -fixed.One, 0), D: b.Top}
	}
	v.Planes[PlaneNear] = Plane{Normal: math3d.Dir(0, 0, fixed.One), D: -b.Near}
	v.Planes[PlaneFar] = Plane{Normal: math3d.Dir(0, 0, -fixed.One), D: b.Far}

	for i := range v.Planes {
		v.Planes[i].Normalize()
	}
	return v
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec4
	Max math3d.Vec4
}

// NewAABB creates an AABB from its corner points.
func NewAABB(lo, hi math3d.Vec4) AABB {
	return AABB{Min: lo, Max: hi}
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec4 {
	return math3d.Point(
		(b.Min.X+b.Max.X)>>1,
		(b.Min.Y+b.Max.Y)>>1,
		(b.Min.Z+b.Max.Z)>>1,
	)
}

// Size returns the edge lengths as a direction.
func (b AABB) Size() math3d.Vec4 {
	return math3d.Dir(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y, b.Max.Z-b.Min.Z)
}

// Corner returns corner i (0..7). Bit 0 picks Max.X, bit 1 Max.Y and
// bit 2 Max.Z.
func (b AABB) Corner(i int) math3d.Vec4 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	c.W = fixed.One
	return c
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m *math3d.Mat4) AABB {
	first := m.MulVec(b.Corner(0))
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		p := m.MulVec(b.Corner(i))
		out.Min.X, out.Max.X = min(out.Min.X, p.X), max(out.Max.X, p.X)
		out.Min.Y, out.Max.Y = min(out.Min.Y, p.Y), max(out.Max.Y, p.Y)
		out.Min.Z, out.Max.Z = min(out.Min.Z, p.Z), max(out.Max.Z, p.Z)
	}
	out.Min.W, out.Max.W = fixed.One, fixed.One
	return out
}

// ContainsPoint reports whether p is inside the box, borders included.
func (b AABB) ContainsPoint(p math3d.Vec4) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// pick returns a when cond holds, otherwise b.
func pick(cond bool, a, b fixed.Scalar) fixed.Scalar {
	if cond {
		return a
	}
	return b
}

// IntersectAABB reports whether any part of box may be inside the volume.
// For each plane only the corner furthest along the normal is tested.
func (v *ViewVolume) IntersectAABB(box AABB) bool {
	for i := range v.Planes {
		n := v.Planes[i].Normal
		p := math3d.Point(
			pick(n.X >= 0, box.Max.X, box.Min.X),
			pick(n.Y >= 0, box.Max.Y, box.Min.Y),
			pick(n.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if v.Planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether box is entirely inside the volume.
func (v *ViewVolume) ContainsAABB(box AABB) bool {
	for i := range v.Planes {
		n := v.Planes[i].Normal
		p := math3d.Point(
			pick(n.X >= 0, box.Min.X, box.Max.X),
			pick(n.Y >= 0, box.Min.Y, box.Max.Y),
			pick(n.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if v.Planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a view-space point is inside the volume.
func (v *ViewVolume) ContainsPoint(p math3d.Vec4) bool {
	for i := range v.Planes {
		if v.Planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere may overlap the volume.
func (v *ViewVolume) IntersectsSphere(center math3d.Vec4, radius fixed.Scalar) bool {
	for i := range v.Planes {
		if v.Planes[i].Distance(center) < -int64(radius) {
			return false
		}
	}
	return true
}
