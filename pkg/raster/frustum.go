package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

// ErrInvalidTarget is returned when a render target has no pixels.
var ErrInvalidTarget = errors.New("raster: invalid render target")

// Projection is the kind of projection a Frustum builds.
type Projection uint8

const (
	Orthographic Projection = iota
	Perspective
)

func (p Projection) String() string {
	if p == Perspective {
		return "perspective"
	}
	return "orthographic"
}

// Frustum describes a view volume and the render target it maps onto.
// The projection matrix is rebuilt only after a parameter changes.
//
// A Frustum is not safe for concurrent mutation. Concurrent readers are fine
// once Projection has been called after the last change.
type Frustum struct {
	bounds math3d.Bounds
	focal  fixed.Scalar
	kind   Projection
	width  int
	height int

	proj     math3d.Mat4
	dirty    bool
	rebuilds int
}

// NewFrustum returns a frustum projecting b onto a width×height target.
// focal is the projection-plane distance used by perspective projections.
func NewFrustum(b math3d.Bounds, focal fixed.Scalar, kind Projection, width, height int) (*Frustum, error) {
	f := &Frustum{bounds: b, focal: focal, kind: kind, dirty: true}
	if err := f.SetTarget(width, height); err != nil {
		return nil, err
	}
	return f, nil
}

// SetBounds replaces the six bounds.
func (f *Frustum) SetBounds(b math3d.Bounds) {
	if f.bounds == b {
		return
	}
	f.bounds = b
	f.dirty = true
}

// SetFocal sets the projection-plane distance.
func (f *Frustum) SetFocal(focal fixed.Scalar) {
	if f.focal == focal {
		return
	}
	f.focal = focal
	f.dirty = true
}

// SetProjection switches between orthographic and perspective.
func (f *Frustum) SetProjection(kind Projection) {
	if f.kind == kind {
		return
	}
	f.kind = kind
	f.dirty = true
}

// SetTarget resizes the render target.
func (f *Frustum) SetTarget(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}
	if f.width == width && f.height == height {
		return nil
	}
	f.width, f.height = width, height
	f.dirty = true
	return nil
}

// Bounds returns the six bounds.
func (f *Frustum) Bounds() math3d.Bounds { return f.bounds }

// Focal returns the projection-plane distance.
func (f *Frustum) Focal() fixed.Scalar { return f.focal }

// Kind returns the projection kind.
func (f *Frustum) Kind() Projection { return f.kind }

// Width returns the target width in pixels.
func (f *Frustum) Width() int { return f.width }

// Height returns the target height in pixels.
func (f *Frustum) Height() int { return f.height }

// TargetRect returns the render-target rectangle in pixels.
func (f *Frustum) TargetRect() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// Projection returns the projection matrix, rebuilding it if a parameter
// changed since the last call.
func (f *Frustum) Projection() *math3d.Mat4 {
	if f.dirty {
		if f.kind == Perspective {
			math3d.Perspective(&f.proj, f.bounds, f.focal, f.width, f.height)
		} else {
			math3d.Orthographic(&f.proj, f.bounds, f.width, f.height)
		}
		f.dirty = false
		f.rebuilds++
	}
	return &f.proj
}

// Project maps a view-space point to target space: X and Y in pixels from
// the top-left corner, Z as depth in [0, One] and W as the clip-space w.
func (f *Frustum) Project(v math3d.Vec4) math3d.Vec4 {
	p := f.Projection().MulVec(v)
	p.ScreenPort(f.width, f.height)
	return p
}
