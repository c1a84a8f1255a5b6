package raster

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// checkEvery is how many triangles a band draws between context checks.
const checkEvery = 64

// Bands splits a render target into horizontal bands and rasterizes them in
// parallel, one Rasterizer per band. Each band only emits pixels inside its
// own rows, so sinks writing to a shared frame buffer need no locking as
// long as each band's sink keeps its own scratch state.
type Bands struct {
	frustum *Frustum
	rasters []*Rasterizer
	rects   []image.Rectangle
}

// NewBands creates n bands over f's target. sinkFor is called once per band
// to obtain that band's sink. opts apply to every band's rasterizer; a
// WithClip among them is intersected with the band.
func NewBands(f *Frustum, n int, sinkFor func(band int) FragmentSink, opts ...Option) (*Bands, error) {
	if f == nil || f.Width() <= 0 || f.Height() <= 0 {
		return nil, fmt.Errorf("bands: %w", ErrInvalidTarget)
	}
	n = max(1, min(n, f.Height()))
	rows := (f.Height() + n - 1) / n

	b := &Bands{frustum: f}
	for i := range n {
		y0 := i * rows
		if y0 >= f.Height() {
			break
		}
		rect := image.Rect(0, y0, f.Width(), min(y0+rows, f.Height()))
		bandOpts := append(append([]Option(nil), opts...), WithClip(rect))
		r := NewRasterizer(f, sinkFor(i), bandOpts...)
		// every band reaches the same cull decision; the first one reports it
		r.quiet = i > 0
		b.rasters = append(b.rasters, r)
		b.rects = append(b.rects, rect)
	}
	return b, nil
}

// Len returns the number of bands.
func (b *Bands) Len() int { return len(b.rasters) }

// Rect returns the rows covered by band i.
func (b *Bands) Rect(i int) image.Rectangle { return b.rects[i] }

// Band returns the rasterizer of band i.
func (b *Bands) Band(i int) *Rasterizer { return b.rasters[i] }

// SetVariant changes the variant of every band.
func (b *Bands) SetVariant(v Variant) {
	for _, r := range b.rasters {
		r.SetVariant(v)
	}
}

// Draw rasterizes tris into every band concurrently and waits for all bands.
// Cancelling ctx stops the bands early and returns the context's error.
func (b *Bands) Draw(ctx context.Context, tris []Triangle) error {
	// materialise the lazily built projection before sharing the frustum
	b.frustum.Projection()

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range b.rasters {
		g.Go(func() error {
			for i := range tris {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				r.Draw(&tris[i])
			}
			return nil
		})
	}
	return g.Wait()
}

// Stats returns the combined statistics. Every band makes the same culling
// decision for a triangle, so triangle counts come from the first band and
// fragment counts are summed over all bands.
func (b *Bands) Stats() CullingStats {
	if len(b.rasters) == 0 {
		return CullingStats{}
	}
	s := b.rasters[0].Stats()
	s.Fragments = 0
	for _, r := range b.rasters {
		s.Fragments += r.Stats().Fragments
	}
	return s
}

// ResetStats zeroes the statistics of every band.
func (b *Bands) ResetStats() {
	for _, r := range b.rasters {
		r.ResetStats()
	}
}
