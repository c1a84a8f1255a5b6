package render

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// The sinks below hold no per-fragment state, so one value can serve every
// band of a raster.Bands as long as the bands cover disjoint rows.

// Light is a directional light with an ambient floor.
type Light struct {
	Dir     math3d.Vec4  // Unit direction pointing toward the light
	Ambient fixed.Scalar // Intensity of surfaces facing away, in [0, One]
}

// NewLight returns a light shining from dir with the given ambient level.
func NewLight(dir math3d.Vec4, ambient fixed.Scalar) Light {
	dir.W = 0
	dir.Normalize()
	return Light{Dir: dir, Ambient: ambient}
}

// DefaultLight is a light from the upper right front with 20% ambient.
func DefaultLight() Light {
	return NewLight(math3d.Dir(fixed.One, 2*fixed.One, fixed.One), fixed.FromFraction(1, 5))
}

// Intensity returns the Lambert intensity for unit normal n, in
// [Ambient, One].
func (l Light) Intensity(n math3d.Vec4) fixed.Scalar {
	diffuse := max(math3d.DotScalar(n, l.Dir), 0)
	return l.Ambient + fixed.Mul(fixed.One-l.Ambient, min(diffuse, fixed.One))
}

// DepthSink writes depth only. Driven by the Flat rasterizer it renders
// shadow maps and depth pre-passes.
type DepthSink struct {
	Depth *DepthBuffer
}

// Fragment keeps the nearest depth.
func (s DepthSink) Fragment(f *raster.Fragment) {
	s.Depth.Test(f.X, f.Y, f.Depth)
}

// ColorSink depth-tests each fragment and writes its colour, either the
// interpolated Gouraud colour or the triangle's flat colour.
type ColorSink struct {
	FB *Framebuffer
}

// Fragment writes f's colour when it passes the depth test.
func (s ColorSink) Fragment(f *raster.Fragment) {
	if !s.FB.Depth.Test(f.X, f.Y, f.Depth) {
		return
	}
	s.FB.Pixels[f.Y*s.FB.Width+f.X] = FromScalars(f.Color())
}

// TextureSink samples Tex at the fragment's texture coordinates and
// modulates the texel by the fragment colour.
type TextureSink struct {
	FB  *Framebuffer
	Tex *Texture
}

// Fragment writes the shaded texel when f passes the depth test.
func (s TextureSink) Fragment(f *raster.Fragment) {
	if !s.FB.Depth.Test(f.X, f.Y, f.Depth) {
		return
	}
	texel := s.Tex.Sample(f.UV())
	texel.A = 255
	s.FB.Pixels[f.Y*s.FB.Width+f.X] = Modulate(texel, FromScalars(f.Color()))
}

// PhongSink lights every fragment from its interpolated world normal. The
// base colour is the triangle's flat colour, modulated by Tex when the
// fragment carries texture coordinates. Fragments that Shadow reports as
// occluded receive only ambient light.
type PhongSink struct {
	FB     *Framebuffer
	Light  Light
	Tex    *Texture   // Optional
	Shadow *ShadowMap // Optional
}

// Fragment shades and writes f when it passes the depth test.
func (s PhongSink) Fragment(f *raster.Fragment) {
	if !s.FB.Depth.Test(f.X, f.Y, f.Depth) {
		return
	}

	base := FromScalars(f.Color())
	if s.Tex != nil && f.Channels.Has(raster.ChanUV) {
		texel := s.Tex.Sample(f.UV())
		texel.A = 255
		base = Modulate(texel, base)
	}

	intensity := s.Light.Ambient
	if s.Shadow == nil || !s.Shadow.Occluded(f.World()) {
		// interpolated normals come out shorter than unit length
		n := f.Normal()
		n.Normalize()
		intensity = s.Light.Intensity(n)
	}
	s.FB.Pixels[f.Y*s.FB.Width+f.X] = Shade(base, intensity)
}
