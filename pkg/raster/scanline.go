package raster

import (
	"image"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

const maxLanes = 2 + NumAttrs

// edgeBias is subtracted from an edge position before rounding it up to a
// pixel. It absorbs the rounding error accumulated while stepping an edge,
// so positions that are exactly on a pixel boundary in exact arithmetic
// round the same way however the triangle was split.
const edgeBias fixed.Long = 1 << 12

type lanes [maxLanes]fixed.Long

// vertex is a sorted corner in walk precision: x and the lanes in Q32.32,
// y in Q16.16 (vertex rows are always whole Scalars).
type vertex struct {
	x fixed.Long
	y int64
	l lanes
}

// edge is one side of a half triangle, positioned on the current row.
type edge struct {
	x, dx fixed.Long
	l, dl lanes
}

// setup positions e on row y (Scalar scaled) of the edge from a to b. The
// starting values are computed directly rather than stepped, so clipping
// away leading rows costs nothing in accuracy.
func (e *edge) setup(a, b *vertex, y int64, n int) {
	dy := fixed.NonZero(b.y - a.y)
	off := y - a.y

	dx := int64(b.x - a.x)
	e.dx = fixed.Long(fixed.MulDiv(int64(fixed.One), dx, dy))
	e.x = a.x + fixed.Long(fixed.MulDiv(off, dx, dy))

	for k := range n {
		d := int64(b.l[k] - a.l[k])
		e.dl[k] = fixed.Long(fixed.MulDiv(int64(fixed.One), d, dy))
		e.l[k] = a.l[k] + fixed.Long(fixed.MulDiv(off, d, dy))
	}
}

func (e *edge) step(n int) {
	e.x += e.dx
	for k := range n {
		e.l[k] += e.dl[k]
	}
}

// ceilEdge rounds an edge position up to a pixel index.
func ceilEdge(x fixed.Long) int {
	return int((x - edgeBias + fixed.LongOne - 1) >> fixed.LongBits)
}

// rowOf returns the first pixel row at or below y.
func rowOf(y int64) int {
	return fixed.Scalar(y).Ceil()
}

// fill splits the loaded triangle if needed and fills its halves.
func (r *Rasterizer) fill(clip image.Rectangle) {
	v0, v1, v2 := &r.v[0], &r.v[1], &r.v[2]
	top, mid, bottom := rowOf(v0.y), rowOf(v1.y), rowOf(v2.y)

	switch {
	case v0.y == v2.y:
		// zero height
	case v0.y == v1.y:
		// flat top
		a, b := v0, v1
		if b.x < a.x {
			a, b = b, a
		}
		r.fillHalf(clip, a, v2, b, v2, top, bottom)
	case v1.y == v2.y:
		// flat bottom
		a, b := v1, v2
		if b.x < a.x {
			a, b = b, a
		}
		r.fillHalf(clip, v0, a, v0, b, top, bottom)
	default:
		v3 := r.split()
		if v1.x < v3.x {
			r.fillHalf(clip, v0, v1, v0, v3, top, mid)
			r.fillHalf(clip, v1, v2, v3, v2, mid, bottom)
		} else {
			r.fillHalf(clip, v0, v3, v0, v1, top, mid)
			r.fillHalf(clip, v3, v2, v1, v2, mid, bottom)
		}
	}
}

// split places the fourth vertex on the long edge v0-v2 at the height of
// v1. Position and every lane are interpolated with the same parameter
// t = (y1-y0)/(y2-y0).
func (r *Rasterizer) split() *vertex {
	v0, v1, v2, v3 := &r.v[0], &r.v[1], &r.v[2], &r.v[3]
	num, den := v1.y-v0.y, fixed.NonZero(v2.y-v0.y)

	v3.y = v1.y
	v3.x = v0.x + fixed.Long(fixed.MulDiv(num, int64(v2.x-v0.x), den))
	for k := range r.nLanes {
		v3.l[k] = v0.l[k] + fixed.Long(fixed.MulDiv(num, int64(v2.l[k]-v0.l[k]), den))
	}
	return v3
}

// fillHalf fills rows [rowStart, rowEnd) between the edges l0-l1 and r0-r1.
func (r *Rasterizer) fillHalf(clip image.Rectangle, l0, l1, r0, r1 *vertex, rowStart, rowEnd int) {
	rowStart = max(rowStart, clip.Min.Y)
	rowEnd = min(rowEnd, clip.Max.Y)
	if rowStart >= rowEnd {
		return
	}

	n := r.nLanes
	y := int64(fixed.FromInt(rowStart))
	r.left.setup(l0, l1, y, n)
	r.right.setup(r0, r1, y, n)

	for row := rowStart; row < rowEnd; row++ {
		r.span(clip, row)
		r.left.step(n)
		r.right.step(n)
	}
}

// span emits the pixels of one scanline between the current edges.
func (r *Rasterizer) span(clip image.Rectangle, row int) {
	xl, xr := r.left.x, r.right.x
	x0 := max(ceilEdge(xl), clip.Min.X)
	x1 := min(ceilEdge(xr), clip.Max.X)
	if x0 >= x1 {
		return
	}

	n := r.nLanes
	width := fixed.NonZero(int64(xr - xl))
	pre := int64(fixed.LongFromInt(x0) - xl)
	for k := range n {
		d := int64(r.right.l[k] - r.left.l[k])
		r.slope[k] = fixed.Long(fixed.MulDiv(d, int64(fixed.LongOne), width))
		r.cur[k] = r.left.l[k] + fixed.Long(fixed.MulDiv(pre, d, width))
	}

	f := &r.frag
	f.Y = row
	base := r.base
	persp := r.variant.Perspective

	for x := x0; x < x1; x++ {
		f.X = x
		f.Depth = r.cur[0].Scalar()

		if persp {
			// w at this pixel with Scalar scaling, from the interpolated 1/w
			w := (int64(1) << (fixed.Bits + fixed.LongBits)) / fixed.NonZero(int64(r.cur[1]))
			for j, a := range r.attrs {
				aw := int64(r.cur[base+j]) >> InterpolateBits
				f.Attr[a] = fixed.Scalar((aw * w) >> (fixed.LongBits - InterpolateBits))
			}
		} else {
			for j, a := range r.attrs {
				f.Attr[a] = r.cur[base+j].Scalar()
			}
		}

		r.sink.Fragment(f)

		for k := range n {
			r.cur[k] += r.slope[k]
		}
	}
	r.stats.Fragments += x1 - x0
}
