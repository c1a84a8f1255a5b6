package models

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
	if loader.Scale != 1 {
		t.Errorf("Scale should default to 1, got %v", loader.Scale)
	}
}

// triangleDoc builds a document holding one indexed triangle in the XY
// plane, wound counter-clockwise seen from +Z.
func triangleDoc() *gltf.Document {
	var data []byte
	for _, f := range []float32{0, 0, 0, 2, 0, 0, 0, 1.5, 0} {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		data = binary.LittleEndian.AppendUint16(data, i)
	}
	data = append(data, 0, 0)

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
		Materials: []*gltf.Material{{
			Name:                 "red",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}},
		}},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    gltf.Index(1),
				Material:   gltf.Index(0),
			}},
		}},
	}
}

func TestDecodeTriangle(t *testing.T) {
	mesh, err := NewGLTFLoader().Decode(triangleDoc(), "tri.glb")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
	}
	if got := mesh.GetFace(0); got != [3]int{0, 1, 2} {
		t.Errorf("winding changed: %v", got)
	}
	if got := mesh.GetVertex(1).Position; got != math3d.PointInt(2, 0, 0) {
		t.Errorf("vertex 1 = %v", got)
	}
	if got := mesh.GetVertex(2).Position.Y; got != fixed.FromFloat(1.5) {
		t.Errorf("vertex 2 Y = %v", got)
	}

	// no NORMAL attribute, so normals are generated
	for i := range mesh.Vertices {
		n := mesh.Vertices[i].Normal
		if n.X != 0 || n.Y != 0 || fixed.Abs(n.Z-fixed.One) > 2 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}

	mat := mesh.GetMaterial(mesh.GetFaceMaterial(0))
	if mat == nil || mat.Name != "red" {
		t.Fatalf("material = %+v", mat)
	}
	if mat.Color != [4]fixed.Scalar{fixed.One, 0, 0, fixed.One} {
		t.Errorf("material colour = %v", mat.Color)
	}

	lo, hi := mesh.GetBounds()
	if lo != math3d.PointInt(0, 0, 0) || hi != math3d.Point(fixed.FromInt(2), fixed.FromFloat(1.5), 0) {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}

func TestDecodeScale(t *testing.T) {
	l := NewGLTFLoader()
	l.Scale = 0.5
	mesh, err := l.Decode(triangleDoc(), "tri")
	if err != nil {
		t.Fatal(err)
	}
	if got := mesh.GetVertex(1).Position.X; got != fixed.One {
		t.Errorf("scaled X = %v, want One", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*gltf.Document)
		want   error
	}{
		{"no meshes", func(d *gltf.Document) { d.Meshes = nil }, ErrNoGeometry},
		{"lines only", func(d *gltf.Document) { d.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines }, ErrNoGeometry},
		{"external buffer", func(d *gltf.Document) {
			d.Buffers[0].Data = nil
			d.Buffers[0].URI = "tri.bin"
		}, ErrExternalBuffer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := triangleDoc()
			tc.mutate(doc)
			if _, err := NewGLTFLoader().Decode(doc, "tri"); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	doc := triangleDoc()
	doc.Accessors[0].Count = 100
	if _, err := NewGLTFLoader().Decode(doc, "tri"); err == nil {
		t.Error("overrunning accessor should fail")
	}
}
