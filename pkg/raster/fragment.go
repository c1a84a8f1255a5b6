package raster

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

// Fragment is one covered pixel with its interpolated attributes.
//
// The rasterizer reuses a single Fragment for every pixel it emits; sinks
// must copy whatever they need to keep.
type Fragment struct {
	X, Y  int
	Depth fixed.Scalar
	Attr  [NumAttrs]fixed.Scalar

	// Channels lists the attribute groups that were interpolated. The
	// colour slots hold the triangle's flat colour when ChanColor is absent.
	Channels Channels
}

// Color returns the interpolated or flat colour.
func (f *Fragment) Color() (r, g, b fixed.Scalar) {
	return f.Attr[AttrR], f.Attr[AttrG], f.Attr[AttrB]
}

// UV returns the texture coordinates.
func (f *Fragment) UV() (u, v fixed.Scalar) {
	return f.Attr[AttrU], f.Attr[AttrV]
}

// World returns the world-space position as a point.
func (f *Fragment) World() math3d.Vec4 {
	return math3d.Point(f.Attr[AttrWorldX], f.Attr[AttrWorldY], f.Attr[AttrWorldZ])
}

// Normal returns the world-space normal as a direction. It is not
// renormalized.
func (f *Fragment) Normal() math3d.Vec4 {
	return math3d.Dir(f.Attr[AttrNormalX], f.Attr[AttrNormalY], f.Attr[AttrNormalZ])
}

// FragmentSink receives every pixel a rasterizer covers. Pixels arrive
// top-to-bottom, left-to-right within a scanline, and all pixels of one
// triangle arrive before the next triangle starts.
type FragmentSink interface {
	Fragment(f *Fragment)
}

// SinkFunc adapts a function to a FragmentSink.
type SinkFunc func(f *Fragment)

// Fragment calls s(f).
func (s SinkFunc) Fragment(f *Fragment) { s(f) }

// Discard is a sink that ignores every fragment.
var Discard FragmentSink = SinkFunc(func(*Fragment) {})
