package raster

import (
	"image"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// CullReason says why a triangle produced no fragments.
type CullReason uint8

const (
	// CullNone means the triangle was rasterized.
	CullNone CullReason = iota
	// CullOversized means the screen-space bounding box is wider or taller
	// than the render target.
	CullOversized
	// CullOutsideFrustum means all three vertices lie beyond the same edge
	// of the target rectangle or the same end of the depth range.
	CullOutsideFrustum
	// CullFacing means the triangle faces the culled side.
	CullFacing

	numCullReasons
)

func (c CullReason) String() string {
	switch c {
	case CullNone:
		return "none"
	case CullOversized:
		return "oversized"
	case CullOutsideFrustum:
		return "outside-frustum"
	case CullFacing:
		return "facing"
	}
	return "unknown"
}

// FaceCull selects which winding is rejected. A triangle is culled when its
// signed area times the FaceCull value is negative.
type FaceCull int8

// Face culling modes. Front faces are counter-clockwise in a Y-up view and
// so have a negative signed area on the Y-down target.
const (
	FaceCullBack  FaceCull = -1
	FaceCullNone  FaceCull = 0
	FaceCullFront FaceCull = 1
)

func (f FaceCull) String() string {
	switch {
	case f < 0:
		return "back"
	case f > 0:
		return "front"
	}
	return "none"
}

// CullingStats counts what a rasterizer did with the triangles it was given.
type CullingStats struct {
	Tested    int                 // Triangles passed to Draw
	Drawn     int                 // Triangles that reached the fill stage
	Culled    [numCullReasons]int // Rejections by reason, indexed by CullReason
	Fragments int                 // Fragments emitted
}

// CulledTotal returns the number of rejected triangles.
func (s *CullingStats) CulledTotal() int {
	n := 0
	for _, c := range s.Culled[CullNone+1:] {
		n += c
	}
	return n
}

// Add accumulates o into s.
func (s *CullingStats) Add(o CullingStats) {
	s.Tested += o.Tested
	s.Drawn += o.Drawn
	for i := range s.Culled {
		s.Culled[i] += o.Culled[i]
	}
	s.Fragments += o.Fragments
}

// Reset zeroes all counters.
func (s *CullingStats) Reset() {
	*s = CullingStats{}
}

// cull runs the three whole-triangle rejection tests in order.
func cull(t *Triangle, target image.Rectangle, frustumCull bool, face FaceCull) CullReason {
	p := &t.Pos

	minX, maxX := fixed.Min3(p[0].X, p[1].X, p[2].X), fixed.Max3(p[0].X, p[1].X, p[2].X)
	minY, maxY := fixed.Min3(p[0].Y, p[1].Y, p[2].Y), fixed.Max3(p[0].Y, p[1].Y, p[2].Y)
	if int64(maxX)-int64(minX) > int64(fixed.FromInt(target.Dx())) ||
		int64(maxY)-int64(minY) > int64(fixed.FromInt(target.Dy())) {
		return CullOversized
	}

	if frustumCull {
		left, right := fixed.FromInt(target.Min.X), fixed.FromInt(target.Max.X)
		top, bottom := fixed.FromInt(target.Min.Y), fixed.FromInt(target.Max.Y)
		minZ, maxZ := fixed.Min3(p[0].Z, p[1].Z, p[2].Z), fixed.Max3(p[0].Z, p[1].Z, p[2].Z)
		if maxX <= left || minX >= right ||
			maxY <= top || minY >= bottom ||
			maxZ < 0 || minZ > fixed.One {
			return CullOutsideFrustum
		}
	}

	if face != FaceCullNone && t.SignedArea()*int64(face) < 0 {
		return CullFacing
	}
	return CullNone
}
