package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// gridSink records, per pixel, the flat red channel of the last triangle
// that covered it along with its depth.
type gridSink struct {
	w     int
	id    []fixed.Scalar
	depth []fixed.Scalar
}

func newGridSink(w, h int) *gridSink {
	g := &gridSink{w: w, id: make([]fixed.Scalar, w*h), depth: make([]fixed.Scalar, w*h)}
	for i := range g.id {
		g.id[i] = -1
	}
	return g
}

func (g *gridSink) Fragment(f *Fragment) {
	i := f.Y*g.w + f.X
	g.id[i] = f.Attr[AttrR]
	g.depth[i] = f.Depth
}

func randomScene(n, w, h int, seed uint32) []Triangle {
	rng := fixed.NewRand(seed)
	tris := make([]Triangle, n)
	for i := range tris {
		t := &tris[i]
		for k := range 3 {
			t.Pos[k].X = fixed.FromInt(rng.Intn(w+16)-8) + rng.Scalar()
			t.Pos[k].Y = fixed.FromInt(rng.Intn(h+16)-8) + rng.Scalar()
			t.Pos[k].Z = rng.Scalar()
			t.Pos[k].W = one
		}
		t.SetFlat(fixed.Scalar(i), 0, 0)
	}
	return tris
}

func TestNewBands(t *testing.T) {
	f := newTestFrustum(t, 48, 40)
	tests := []struct {
		n    int
		want []image.Rectangle
	}{
		{0, []image.Rectangle{image.Rect(0, 0, 48, 40)}},
		{3, []image.Rectangle{image.Rect(0, 0, 48, 14), image.Rect(0, 14, 48, 28), image.Rect(0, 28, 48, 40)}},
		{4, []image.Rectangle{image.Rect(0, 0, 48, 10), image.Rect(0, 10, 48, 20), image.Rect(0, 20, 48, 30), image.Rect(0, 30, 48, 40)}},
	}
	for _, tc := range tests {
		b, err := NewBands(f, tc.n, func(int) FragmentSink { return Discard })
		if err != nil {
			t.Fatal(err)
		}
		if b.Len() != len(tc.want) {
			t.Fatalf("NewBands(%d) made %d bands, want %d", tc.n, b.Len(), len(tc.want))
		}
		for i, want := range tc.want {
			if b.Rect(i) != want {
				t.Errorf("NewBands(%d) band %d = %v, want %v", tc.n, i, b.Rect(i), want)
			}
		}
	}

	b, _ := NewBands(f, 1000, func(int) FragmentSink { return Discard })
	if b.Len() != 40 {
		t.Errorf("band count is limited to the row count, got %d", b.Len())
	}
	if _, err := NewBands(nil, 2, nil); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("NewBands(nil) err = %v", err)
	}
}

func TestBandsMatchSingleRasterizer(t *testing.T) {
	const w, h = 48, 40
	f := newTestFrustum(t, w, h)
	tris := randomScene(300, w, h, 99)

	single := newGridSink(w, h)
	r := NewRasterizer(f, single, WithFaceCull(FaceCullBack))
	r.DrawAll(tris)

	banded := newGridSink(w, h)
	b, err := NewBands(f, 3, func(int) FragmentSink { return banded }, WithFaceCull(FaceCullBack))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Draw(context.Background(), tris); err != nil {
		t.Fatal(err)
	}

	for i := range single.id {
		if single.id[i] != banded.id[i] {
			t.Fatalf("pixel (%d,%d): single drew triangle %d, bands %d",
				i%w, i/w, single.id[i], banded.id[i])
		}
		if fixed.Abs(single.depth[i]-banded.depth[i]) > 1 {
			t.Fatalf("pixel (%d,%d): depth %d vs %d", i%w, i/w, single.depth[i], banded.depth[i])
		}
	}

	if got, want := b.Stats(), r.Stats(); got != want {
		t.Errorf("band stats %+v, want %+v", got, want)
	}
	b.ResetStats()
	if b.Stats() != (CullingStats{}) {
		t.Error("ResetStats did not clear band stats")
	}
}

func TestBandsCancel(t *testing.T) {
	f := newTestFrustum(t, 32, 32)
	b, err := NewBands(f, 2, func(int) FragmentSink { return Discard })
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Draw(ctx, randomScene(10, 32, 32, 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("Draw with cancelled context = %v", err)
	}
	if b.Stats().Tested != 0 {
		t.Error("cancelled draw should not test any triangle")
	}
}

func TestBandsLogCullOnce(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	f := newTestFrustum(t, 32, 32)
	b, err := NewBands(f, 4, func(int) FragmentSink { return Discard })
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Draw(context.Background(), []Triangle{*tri(-20, 0, -10, 0, -15, 5)}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "triangle culled"); n != 1 {
		t.Errorf("culled triangle logged %d times across %d bands, want 1", n, b.Len())
	}
}

func BenchmarkFill(b *testing.B) {
	f := newTestFrustum(b, 64, 64)
	tr := tri(2.5, 1.25, 62, 30.5, 10.75, 62.5)
	for k := range 3 {
		tr.Pos[k].W = fixed.FromInt(k + 1)
		tr.SetColor(k, one, one/2, one/4)
		tr.SetUV(k, fixed.FromInt(k), fixed.FromInt(2-k))
	}

	for _, v := range []Variant{Flat, Gouraud, Phong, PerspectiveGouraud, PerspectivePhong} {
		b.Run(v.String(), func(b *testing.B) {
			r := NewRasterizer(f, Discard, WithVariant(v))
			for b.Loop() {
				r.Draw(tr)
			}
		})
	}
}

func BenchmarkBands(b *testing.B) {
	const w, h = 160, 120
	f := newTestFrustum(b, w, h)
	tris := randomScene(500, w, h, 3)
	bands, err := NewBands(f, 4, func(int) FragmentSink { return Discard }, WithVariant(Gouraud))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	for b.Loop() {
		if err := bands.Draw(ctx, tris); err != nil {
			b.Fatal(err)
		}
	}
}
