// Package models provides fixed-point meshes and their loaders.
package models

import (
	"image"
	"math/bits"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

// Mesh is an indexed triangle mesh in fixed-point model space.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec4
	BoundsMax math3d.Vec4
}

// Vertex holds all vertex attributes.
type Vertex struct {
	Position math3d.Vec4 // W = One
	Normal   math3d.Vec4 // W = 0
	U, V     fixed.Scalar
}

// Face is a triangle wound counter-clockwise when seen from outside.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a glTF PBR material the renderer uses.
type Material struct {
	Name  string
	Color [4]fixed.Scalar // RGBA, each in [0, One]

	// Texture is the decoded base colour texture, if any.
	Texture image.Image
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		BoundsMin: math3d.Point(0, 0, 0),
		BoundsMax: math3d.Point(0, 0, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec4, u, v fixed.Scalar) int {
	m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: normal, U: u, V: v})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle.
func (m *Mesh) AddFace(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: material})
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		p := v.Position
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec4 {
	return math3d.Point(
		(m.BoundsMin.X+m.BoundsMax.X)/2,
		(m.BoundsMin.Y+m.BoundsMax.Y)/2,
		(m.BoundsMin.Z+m.BoundsMax.Z)/2,
	)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec4 {
	s := m.BoundsMax
	s.Sub(m.BoundsMin)
	s.W = 0
	return s
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceCross returns the unnormalized face normal (b-a)×(c-a) with the
// products kept at full precision, so small faces still have a direction.
func faceCross(a, b, c math3d.Vec4) [3]int64 {
	ux, uy, uz := int64(b.X-a.X), int64(b.Y-a.Y), int64(b.Z-a.Z)
	vx, vy, vz := int64(c.X-a.X), int64(c.Y-a.Y), int64(c.Z-a.Z)
	return [3]int64{uy*vz - uz*vy, uz*vx - ux*vz, ux*vy - uy*vx}
}

// unit scales a full-precision direction down to Scalars and normalizes it.
func unit(n [3]int64) math3d.Vec4 {
	var m uint64
	for _, c := range n {
		m = max(m, uint64(fixed.Abs(c)))
	}
	if m == 0 {
		return math3d.Vec4{}
	}
	// bring the largest component to 2^23..2^24 so squaring stays in range
	// and short vectors keep their direction
	shift := bits.Len64(m) - 24
	for k := range n {
		if shift > 0 {
			n[k] >>= shift
		} else {
			n[k] <<= -shift
		}
	}
	v := math3d.Dir(fixed.Scalar(n[0]), fixed.Scalar(n[1]), fixed.Scalar(n[2]))
	return *v.Normalize()
}

// CalculateNormals gives every vertex the normal of the last face using it.
// Meshes that share vertices between faces should use
// CalculateSmoothNormals instead.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := unit(faceCross(
			m.Vertices[f.V[0]].Position,
			m.Vertices[f.V[1]].Position,
			m.Vertices[f.V[2]].Position,
		))
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// CalculateSmoothNormals averages the face normals around each vertex,
// weighted by face area.
func (m *Mesh) CalculateSmoothNormals() {
	acc := make([][3]int64, len(m.Vertices))
	for _, f := range m.Faces {
		c := faceCross(
			m.Vertices[f.V[0]].Position,
			m.Vertices[f.V[1]].Position,
			m.Vertices[f.V[2]].Position,
		)
		// drop precision so sums over many faces cannot overflow
		for k := range c {
			c[k] >>= 16
		}
		for _, i := range f.V {
			for k := range c {
				acc[i][k] += c[k]
			}
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = unit(acc[i])
	}
}

// Transform applies a transformation matrix to all vertices. Normals are
// transformed by the rotation part only and renormalized.
func (m *Mesh) Transform(mat *math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec(v.Position)
		n := mat.MulDir(v.Normal)
		v.Normal = *n.Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh. Textures are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetVertex returns vertex i.
func (m *Mesh) GetVertex(i int) *Vertex {
	return &m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (lo, hi math3d.Vec4) {
	return m.BoundsMin, m.BoundsMax
}
