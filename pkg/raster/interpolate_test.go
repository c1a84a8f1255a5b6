package raster

import (
	"testing"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

func TestGouraudCorners(t *testing.T) {
	f := newTestFrustum(t, 32, 32)
	var c collector
	r := NewRasterizer(f, &c, WithVariant(Gouraud))

	tr := tri(0, 0, 16, 0, 0, 16)
	tr.SetColor(0, one, 0, 0)
	tr.SetColor(1, 0, one, 0)
	tr.SetColor(2, 0, 0, one)
	r.Draw(tr)

	half := one / 2
	tests := []struct {
		x, y    int
		r, g, b fixed.Scalar
	}{
		{0, 0, one, 0, 0},
		{8, 0, half, half, 0},
		{0, 8, half, 0, half},
	}
	for _, tc := range tests {
		fr, ok := c.at(tc.x, tc.y)
		if !ok {
			t.Fatalf("no fragment at (%d,%d)", tc.x, tc.y)
		}
		if r, g, b := fr.Color(); r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("colour at (%d,%d) = %d %d %d, want %d %d %d", tc.x, tc.y, r, g, b, tc.r, tc.g, tc.b)
		}
	}

	// barycentric weights always sum to one
	for _, fr := range c.frags {
		r, g, b := fr.Color()
		if sum := r + g + b; fixed.Abs(sum-one) > 3 {
			t.Fatalf("colour sum at (%d,%d) = %d", fr.X, fr.Y, sum)
		}
		if fr.Channels != ChanColor {
			t.Fatalf("fragment channels = %v", fr.Channels)
		}
	}
}

func TestAffineUV(t *testing.T) {
	f := newTestFrustum(t, 32, 32)
	var c collector
	r := NewRasterizer(f, &c, WithVariant(AffineFlat))

	tr := tri(0, 0, 16, 0, 0, 16)
	tr.SetUV(1, one, 0)
	tr.SetUV(2, 0, one)
	tr.SetFlat(0, one, 0)
	r.Draw(tr)

	fr, ok := c.at(8, 4)
	if !ok {
		t.Fatal("no fragment at (8,4)")
	}
	if u, v := fr.UV(); u != one/2 || v != one/4 {
		t.Errorf("UV(8,4) = %d %d, want %d %d", u, v, one/2, one/4)
	}
	if r, g, _ := fr.Color(); r != 0 || g != one {
		t.Errorf("flat colour not reported with UV variant: %d %d", r, g)
	}
}

func TestPerspectiveMatchesAffineAtConstantW(t *testing.T) {
	pairs := []struct {
		affine, persp Variant
	}{
		{AffineFlat, PerspectiveFlat},
		{AffineGouraud, PerspectiveGouraud},
	}
	f := newTestFrustum(t, 64, 64)
	tr := tri(3.25, 2.5, 60.75, 20, 12, 58.5)
	for k := range 3 {
		tr.Pos[k].Z = fixed.FromFraction(k+1, 4)
		tr.Pos[k].W = 3 * one
	}
	tr.SetColor(0, one, 0, one/3)
	tr.SetColor(1, 0, one, one/2)
	tr.SetColor(2, one/4, one/4, one)
	tr.SetUV(0, 0, 0)
	tr.SetUV(1, 4*one, 0)
	tr.SetUV(2, 0, 4*one)

	for _, p := range pairs {
		t.Run(p.persp.String(), func(t *testing.T) {
			var a, b collector
			NewRasterizer(f, &a, WithVariant(p.affine)).Draw(tr)
			NewRasterizer(f, &b, WithVariant(p.persp)).Draw(tr)

			if len(a.frags) != len(b.frags) || len(a.frags) == 0 {
				t.Fatalf("affine %d fragments, perspective %d", len(a.frags), len(b.frags))
			}
			for i := range a.frags {
				fa, fb := a.frags[i], b.frags[i]
				if fa.X != fb.X || fa.Y != fb.Y || fa.Depth != fb.Depth {
					t.Fatalf("fragment %d differs: %+v vs %+v", i, fa, fb)
				}
				for _, attr := range p.affine.Channels.attrs(nil) {
					if d := fixed.Abs(fa.Attr[attr] - fb.Attr[attr]); d > 8 {
						t.Fatalf("attr %d at (%d,%d): affine %d, perspective %d",
							attr, fa.X, fa.Y, fa.Attr[attr], fb.Attr[attr])
					}
				}
			}
		})
	}
}

func TestPerspectiveCorrection(t *testing.T) {
	f := newTestFrustum(t, 64, 64)
	tr := tri(0, 0, 32, 0, 0, 32)
	tr.Pos[1].W = 3 * one
	tr.SetUV(1, one, 0)

	var affine, persp collector
	NewRasterizer(f, &affine, WithVariant(AffineFlat)).Draw(tr)
	NewRasterizer(f, &persp, WithVariant(PerspectiveFlat)).Draw(tr)

	fa, _ := affine.at(16, 0)
	fp, ok := persp.at(16, 0)
	if !ok {
		t.Fatal("no fragment at (16,0)")
	}
	if u, _ := fa.UV(); u != one/2 {
		t.Errorf("affine u = %d, want %d", u, one/2)
	}
	// halfway across the screen is a quarter of the way along the edge when
	// the far end is three times as deep
	if u, _ := fp.UV(); fixed.Abs(u-one/4) > 64 {
		t.Errorf("perspective u = %d, want about %d", u, one/4)
	}
	if u, _ := persp.frags[0].UV(); u != 0 {
		t.Errorf("u at the near corner = %d, want 0", u)
	}
}

func TestPhongChannels(t *testing.T) {
	f := newTestFrustum(t, 32, 32)
	var c collector
	r := NewRasterizer(f, &c, WithVariant(Phong))

	tr := tri(0, 0, 16, 0, 0, 16)
	world := [3]math3d.Vec4{
		math3d.PointInt(-1, 2, 3),
		math3d.PointInt(3, 2, 3),
		math3d.PointInt(-1, -2, 3),
	}
	for k := range 3 {
		tr.SetWorld(k, world[k])
		tr.SetNormal(k, math3d.Dir(0, 0, one))
	}
	r.Draw(tr)

	fr, ok := c.at(0, 0)
	if !ok {
		t.Fatal("no fragment at (0,0)")
	}
	if fr.World() != world[0] {
		t.Errorf("World at corner = %v, want %v", fr.World(), world[0])
	}
	if fr.Channels != ChanWorld|ChanNormal {
		t.Errorf("channels = %v", fr.Channels)
	}

	mid, _ := c.at(4, 8)
	if !math3d.Equal(mid.World(), math3d.PointInt(0, 0, 3), 2) {
		t.Errorf("World at (4,8) = %v", mid.World())
	}
	for _, fr := range c.frags {
		if fr.Normal() != math3d.Dir(0, 0, one) {
			t.Fatalf("normal at (%d,%d) = %v", fr.X, fr.Y, fr.Normal())
		}
	}
}
