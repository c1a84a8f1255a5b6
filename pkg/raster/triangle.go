package raster

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

// Triangle is a screen-space triangle ready for rasterization.
//
// Pos holds the target-space X and Y in pixels, the depth in Z (0 at the
// near plane, One at the far plane) and the clip-space W, which is One for
// orthographic projections. Attributes are stored per slot with one entry
// per corner so the fill loop can walk them as parallel arrays.
type Triangle struct {
	Pos  [3]math3d.Vec4
	Attr [NumAttrs][3]fixed.Scalar

	// Flat is the colour reported for every fragment when the rasterizer
	// does not interpolate ChanColor.
	Flat [3]fixed.Scalar
}

// SetColor sets the colour of corner i.
func (t *Triangle) SetColor(i int, r, g, b fixed.Scalar) {
	t.Attr[AttrR][i], t.Attr[AttrG][i], t.Attr[AttrB][i] = r, g, b
}

// SetUV sets the texture coordinates of corner i.
func (t *Triangle) SetUV(i int, u, v fixed.Scalar) {
	t.Attr[AttrU][i], t.Attr[AttrV][i] = u, v
}

// SetWorld sets the world-space position of corner i.
func (t *Triangle) SetWorld(i int, p math3d.Vec4) {
	t.Attr[AttrWorldX][i], t.Attr[AttrWorldY][i], t.Attr[AttrWorldZ][i] = p.X, p.Y, p.Z
}

// SetNormal sets the world-space normal of corner i.
func (t *Triangle) SetNormal(i int, n math3d.Vec4) {
	t.Attr[AttrNormalX][i], t.Attr[AttrNormalY][i], t.Attr[AttrNormalZ][i] = n.X, n.Y, n.Z
}

// SetFlat sets the flat colour.
func (t *Triangle) SetFlat(r, g, b fixed.Scalar) {
	t.Flat = [3]fixed.Scalar{r, g, b}
}

// SignedArea returns twice the signed screen-space area with Scalar scaling.
// With Y pointing down, triangles wound counter-clockwise in a Y-up view
// have a negative area.
func (t *Triangle) SignedArea() int64 {
	p := &t.Pos
	ax, ay := int64(p[1].X-p[0].X), int64(p[1].Y-p[0].Y)
	bx, by := int64(p[2].X-p[0].X), int64(p[2].Y-p[0].Y)
	return fixed.Mul64(ax, by) - fixed.Mul64(ay, bx)
}
