package models

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

// quad appends a square of half-size h centred on n*h, spanned by u and v,
// where u×v = n. Corners go counter-clockwise seen from the side n points to.
func (m *Mesh) quad(n, u, v [3]int, h fixed.Scalar, material int) {
	corner := func(su, sv int) math3d.Vec4 {
		var p [3]fixed.Scalar
		for k := range 3 {
			p[k] = fixed.Scalar(n[k]+su*u[k]+sv*v[k]) * h
		}
		return math3d.Point(p[0], p[1], p[2])
	}
	normal := math3d.Dir(fixed.FromInt(n[0]), fixed.FromInt(n[1]), fixed.FromInt(n[2]))

	a := m.AddVertex(corner(-1, -1), normal, 0, 0)
	b := m.AddVertex(corner(1, -1), normal, fixed.One, 0)
	c := m.AddVertex(corner(1, 1), normal, fixed.One, fixed.One)
	d := m.AddVertex(corner(-1, 1), normal, 0, fixed.One)
	m.AddFace(a, b, c, material)
	m.AddFace(a, c, d, material)
}

// NewCube returns an axis-aligned cube of the given edge length centred on
// the origin, with per-face normals and a full texture on every face.
func NewCube(size fixed.Scalar) *Mesh {
	m := NewMesh("cube")
	m.Materials = []Material{{Name: "default", Color: [4]fixed.Scalar{fixed.One, fixed.One, fixed.One, fixed.One}}}

	h := size / 2
	faces := []struct{ n, u, v [3]int }{
		{[3]int{1, 0, 0}, [3]int{0, 0, -1}, [3]int{0, 1, 0}},
		{[3]int{-1, 0, 0}, [3]int{0, 0, 1}, [3]int{0, 1, 0}},
		{[3]int{0, 1, 0}, [3]int{1, 0, 0}, [3]int{0, 0, -1}},
		{[3]int{0, -1, 0}, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
		{[3]int{0, 0, 1}, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
		{[3]int{0, 0, -1}, [3]int{-1, 0, 0}, [3]int{0, 1, 0}},
	}
	for _, f := range faces {
		m.quad(f.n, f.u, f.v, h, 0)
	}
	m.CalculateBounds()
	return m
}

// NewPlane returns a square in the XZ plane at Y = 0 facing +Y, useful as a
// shadow receiver.
func NewPlane(size fixed.Scalar) *Mesh {
	m := NewMesh("plane")
	m.Materials = []Material{{Name: "default", Color: [4]fixed.Scalar{fixed.One, fixed.One, fixed.One, fixed.One}}}

	m.quad([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 0, -1}, size/2, 0)
	normal := math3d.Dir(0, fixed.One, 0)
	for i := range m.Vertices {
		m.Vertices[i].Normal = normal
	}
	m.CalculateBounds()
	return m
}
