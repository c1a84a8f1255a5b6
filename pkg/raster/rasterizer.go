// Package raster implements the fixed-point scanline triangle rasterizer.
//
// A Rasterizer takes screen-space triangles through four stages: whole
// triangle culling, a stable sort of the corners by Y, a split of the
// triangle at the middle corner into a flat-bottom and a flat-top half, and
// a scanline fill of each half. Edge positions and attribute values are
// walked in Q32.32 with a second-order DDA (one slope down the edges and one
// across each span) and every covered pixel is handed to a FragmentSink.
//
// Coverage follows a half-open rule: row y is filled when
// ceil(yTop) <= y < ceil(yBottom), and pixel x on that row when
// ceil(xLeft) <= x < ceil(xRight), with edges evaluated at integer
// coordinates. Triangles that share an edge therefore never both cover a
// pixel on it.
package raster

import (
	"image"
	"log/slog"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// Rasterizer fills triangles for one render target. It owns all of its
// scratch state and performs no allocation per triangle. A Rasterizer is not
// safe for concurrent use; use one per goroutine (see Bands).
type Rasterizer struct {
	frustum     *Frustum
	sink        FragmentSink
	variant     Variant
	face        FaceCull
	frustumCull bool
	clip        image.Rectangle
	hasClip     bool
	quiet       bool // skip culling debug records

	stats    *CullingStats
	ownStats CullingStats

	// lanes: 0 is depth, 1 is 1/w when correcting for perspective, the rest
	// map to attribute slots through attrs.
	base   int
	nLanes int
	attrs  []int

	v     [4]vertex
	left  edge
	right edge
	slope lanes
	cur   lanes
	frag  Fragment
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithVariant selects the interpolated attributes. The default is Flat.
func WithVariant(v Variant) Option {
	return func(r *Rasterizer) { r.variant = v }
}

// WithFaceCull selects face culling. The default is FaceCullNone.
func WithFaceCull(f FaceCull) Option {
	return func(r *Rasterizer) { r.face = f }
}

// WithFrustumCull enables or disables the coarse frustum test. It is
// enabled by default.
func WithFrustumCull(enabled bool) Option {
	return func(r *Rasterizer) { r.frustumCull = enabled }
}

// WithClip restricts output to rect. Repeated WithClip options intersect.
// Clipping does not change interpolated values: the walk is stepped exactly
// to the first visible row and pixel.
func WithClip(rect image.Rectangle) Option {
	return func(r *Rasterizer) {
		if r.hasClip {
			rect = rect.Intersect(r.clip)
		}
		r.clip, r.hasClip = rect, true
	}
}

// WithStats accumulates statistics into s instead of the rasterizer's own
// counters.
func WithStats(s *CullingStats) Option {
	return func(r *Rasterizer) {
		if s != nil {
			r.stats = s
		}
	}
}

// NewRasterizer returns a rasterizer for f's render target that emits
// fragments to sink.
func NewRasterizer(f *Frustum, sink FragmentSink, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		frustum:     f,
		sink:        sink,
		frustumCull: true,
		attrs:       make([]int, 0, NumAttrs),
	}
	r.stats = &r.ownStats
	for _, opt := range opts {
		opt(r)
	}
	r.SetVariant(r.variant)
	return r
}

// SetVariant changes the interpolated attributes.
func (r *Rasterizer) SetVariant(v Variant) {
	r.variant = v
	r.attrs = v.Channels.attrs(r.attrs[:0])
	r.base = 1
	if v.Perspective {
		r.base = 2
	}
	r.nLanes = r.base + len(r.attrs)
	r.frag.Channels = v.Channels
}

// Variant returns the current variant.
func (r *Rasterizer) Variant() Variant { return r.variant }

// SetSink replaces the fragment sink.
func (r *Rasterizer) SetSink(s FragmentSink) { r.sink = s }

// SetFaceCull changes face culling.
func (r *Rasterizer) SetFaceCull(f FaceCull) { r.face = f }

// Frustum returns the frustum the rasterizer targets.
func (r *Rasterizer) Frustum() *Frustum { return r.frustum }

// Stats returns a copy of the accumulated statistics.
func (r *Rasterizer) Stats() CullingStats { return *r.stats }

// ResetStats zeroes the statistics.
func (r *Rasterizer) ResetStats() { r.stats.Reset() }

// clipRect returns the target rectangle intersected with the clip rectangle.
func (r *Rasterizer) clipRect() image.Rectangle {
	rect := r.frustum.TargetRect()
	if r.hasClip {
		rect = rect.Intersect(r.clip)
	}
	return rect
}

// Draw rasterizes t and reports why it was culled, or CullNone.
func (r *Rasterizer) Draw(t *Triangle) CullReason {
	r.stats.Tested++

	reason := cull(t, r.frustum.TargetRect(), r.frustumCull, r.face)
	if reason != CullNone {
		r.stats.Culled[reason]++
		if !r.quiet && debugEnabled() {
			Logger().Debug("triangle culled",
				slog.String("reason", reason.String()),
				slog.Float64("x0", t.Pos[0].X.Float()), slog.Float64("y0", t.Pos[0].Y.Float()),
				slog.Float64("x1", t.Pos[1].X.Float()), slog.Float64("y1", t.Pos[1].Y.Float()),
				slog.Float64("x2", t.Pos[2].X.Float()), slog.Float64("y2", t.Pos[2].Y.Float()),
			)
		}
		return reason
	}
	r.stats.Drawn++

	r.load(t)
	r.fill(r.clipRect())
	return CullNone
}

// DrawAll draws every triangle in ts.
func (r *Rasterizer) DrawAll(ts []Triangle) {
	for i := range ts {
		r.Draw(&ts[i])
	}
}

// sortByY returns the corner indices of t ordered by ascending Y. Corners
// with equal Y keep their original order.
func sortByY(t *Triangle) [3]int {
	o := [3]int{0, 1, 2}
	y := func(i int) fixed.Scalar { return t.Pos[o[i]].Y }
	if y(1) < y(0) {
		o[0], o[1] = o[1], o[0]
	}
	if y(2) < y(1) {
		o[1], o[2] = o[2], o[1]
	}
	if y(1) < y(0) {
		o[0], o[1] = o[1], o[0]
	}
	return o
}

// load copies the sorted corners of t into the scratch vertices, widening
// positions and lanes to Q32.32 and premultiplying attributes by 1/w for
// perspective-correct variants.
func (r *Rasterizer) load(t *Triangle) {
	order := sortByY(t)
	persp := r.variant.Perspective

	for i, src := range order {
		p := &t.Pos[src]
		v := &r.v[i]
		v.x = p.X.ToLong()
		v.y = int64(p.Y)
		v.l[0] = p.Z.ToLong()

		if !persp {
			for j, a := range r.attrs {
				v.l[r.base+j] = t.Attr[a][src].ToLong()
			}
			continue
		}

		iw := reciprocalW(p.W)
		v.l[1] = iw
		for j, a := range r.attrs {
			v.l[r.base+j] = fixed.Long(fixed.MulShift(
				int64(t.Attr[a][src]), int64(iw)>>InterpolateBits, fixed.Bits-InterpolateBits))
		}
	}

	if !r.variant.Channels.Has(ChanColor) {
		r.frag.Attr[AttrR], r.frag.Attr[AttrG], r.frag.Attr[AttrB] = t.Flat[0], t.Flat[1], t.Flat[2]
	}
}

// reciprocalW returns 1/w as a Long. Non-positive w is treated as one unit;
// such triangles cross the eye plane and should have been rejected earlier.
func reciprocalW(w fixed.Scalar) fixed.Long {
	return fixed.Long((int64(1) << (fixed.Bits + fixed.LongBits)) / int64(max(w, 1)))
}
