package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

var (
	// ErrNoGeometry is returned when a document has no triangle primitives.
	ErrNoGeometry = errors.New("models: no triangle geometry")
	// ErrExternalBuffer is returned when a buffer refers to data that was
	// not loaded with the document.
	ErrExternalBuffer = errors.New("models: external buffer not loaded")
)

// GLTFLoader loads glTF/GLB files into fixed-point meshes.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool

	// Scale multiplies every position as it is converted. glTF units are
	// metres; models far larger than the Scalar range need scaling down.
	Scale float64

	// Logger receives skipped-primitive warnings. Nil discards them.
	Logger *slog.Logger
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		Scale:            1,
	}
}

// LoadGLB loads a glTF or GLB file with the default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.Decode(doc, filepath.Base(path))
}

// Decode converts an already opened document.
func (l *GLTFLoader) Decode(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Materials = readMaterials(doc)

	hasNormals := true
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			ok, err := l.processPrimitive(doc, prim, mesh, &hasNormals)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
			if !ok && l.Logger != nil {
				l.Logger.Warn("skipped primitive", "mesh", m.Name, "primitive", i, "mode", prim.Mode)
			}
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processPrimitive appends one primitive to mesh. It reports false for
// primitives it skips, such as lines and points.
func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh, hasNormals *bool) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return false, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return false, nil
	}

	positions, err := readFloats(doc, posIdx, gltf.AccessorVec3)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals, uvs [][]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readFloats(doc, idx, gltf.AccessorVec3); err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	} else {
		*hasNormals = false
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readFloats(doc, idx, gltf.AccessorVec2); err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	material := -1
	if prim.Material != nil {
		material = *prim.Material
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := Vertex{Position: math3d.PointFloat(
			float64(p[0])*l.Scale, float64(p[1])*l.Scale, float64(p[2])*l.Scale)}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math3d.Dir(fixed.FromFloat(float64(n[0])), fixed.FromFloat(float64(n[1])), fixed.FromFloat(float64(n[2])))
		}
		if i < len(uvs) {
			// glTF puts V=0 at the top; flip to a bottom-left origin
			v.U = fixed.FromFloat(float64(uvs[i][0]))
			v.V = fixed.FromFloat(1 - float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	// glTF front faces are counter-clockwise, as are ours
	if prim.Indices != nil {
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if max(a, b, c) >= len(positions) {
				return false, fmt.Errorf("index %d out of range", max(a, b, c))
			}
			mesh.AddFace(base+a, base+b, base+c, material)
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.AddFace(base+i, base+i+1, base+i+2, material)
		}
	}
	return true, nil
}

// readMaterials converts the base colour factors of every material.
func readMaterials(doc *gltf.Document) []Material {
	mats := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mats[i] = Material{Name: m.Name, Color: [4]fixed.Scalar{fixed.One, fixed.One, fixed.One, fixed.One}}
		if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			for k, c := range pbr.BaseColorFactor {
				mats[i].Color[k] = fixed.FromFloat(c)
			}
		}
	}
	return mats
}

// bufferData returns the bytes behind a buffer view.
func bufferData(doc *gltf.Document, view int) ([]byte, *gltf.BufferView, error) {
	if view < 0 || view >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("buffer view %d out of range", view)
	}
	bv := doc.BufferViews[view]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		if buf.URI != "" {
			return nil, nil, fmt.Errorf("%q: %w", buf.URI, ErrExternalBuffer)
		}
		return nil, nil, errors.New("buffer has no data")
	}
	return buf.Data, bv, nil
}

// readFloats reads a float accessor of the given type as rows of floats.
func readFloats(doc *gltf.Document, idx int, typ gltf.AccessorType) ([][]float32, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != typ {
		return nil, fmt.Errorf("expected %v, got %v", typ, acc.Type)
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", acc.ComponentType)
	}
	if acc.BufferView == nil {
		return nil, errors.New("accessor has no buffer view")
	}
	data, bv, err := bufferData(doc, *acc.BufferView)
	if err != nil {
		return nil, err
	}

	n := 3
	if typ == gltf.AccessorVec2 {
		n = 2
	}
	start := bv.ByteOffset + acc.ByteOffset
	stride := bv.ByteStride
	if stride == 0 {
		stride = 4 * n
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+4*n > len(data) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", idx)
	}

	flat := make([]float32, acc.Count*n)
	rows := make([][]float32, acc.Count)
	for i := range acc.Count {
		off := start + i*stride
		row := flat[i*n : (i+1)*n : (i+1)*n]
		for j := range n {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4*j:]))
		}
		rows[i] = row
	}
	return rows, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acc.Type)
	}
	if acc.BufferView == nil {
		return nil, errors.New("accessor has no buffer view")
	}
	data, bv, err := bufferData(doc, *acc.BufferView)
	if err != nil {
		return nil, err
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
	}
	start := bv.ByteOffset + acc.ByteOffset
	stride := bv.ByteStride
	if stride == 0 {
		stride = size
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+size > len(data) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", idx)
	}

	out := make([]int, acc.Count)
	for i := range acc.Count {
		b := data[start+i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

// LoadGLTFWithTextures loads a glTF file and extracts its images.
// Returns the mesh and a map of image index to encoded image data.
func LoadGLTFWithTextures(path string) (*Mesh, map[int][]byte, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().Decode(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			if data, bv, err := bufferData(doc, *img.BufferView); err == nil {
				textures[i] = data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
			}
		} else if img.URI != "" {
			// External texture file
			data, err := os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
			if err == nil {
				textures[i] = data
			}
		}
	}

	return mesh, textures, nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// texture that decodes. The texture is also attached to every material
// without one. It may be nil.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, textures, err := LoadGLTFWithTextures(path)
	if err != nil {
		return nil, nil, err
	}

	var tex image.Image
	for _, i := range slices.Sorted(maps.Keys(textures)) {
		data := textures[i]
		if len(data) == 0 {
			continue
		}
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			tex = img
			break
		}
	}

	if tex != nil {
		for i := range mesh.Materials {
			if mesh.Materials[i].Texture == nil {
				mesh.Materials[i].Texture = tex
			}
		}
	}
	return mesh, tex, nil
}
