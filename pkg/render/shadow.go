package render

import (
	"fmt"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/models"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// ShadowMap is a depth image of the scene seen from a directional light.
// It is filled by the plain Flat rasterizer driving a DepthSink.
type ShadowMap struct {
	Depth *DepthBuffer

	// Bias is subtracted from a point's light depth before comparing, to
	// keep lit surfaces from shadowing themselves.
	Bias fixed.Scalar

	view    math3d.Mat4
	frustum *raster.Frustum
	raster  *raster.Rasterizer
	proj    []math3d.Vec4
	tri     raster.Triangle
}

// NewShadowMap creates a size×size shadow map for light covering the
// sphere of the given radius around center.
func NewShadowMap(size int, light Light, center math3d.Vec4, radius fixed.Scalar) (*ShadowMap, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("shadow map: radius %v must be positive", radius.Float())
	}

	// place an eye two radii out along the light and look back at the center
	eye := light.Dir
	eye.Scale(2 * radius).Add(center)
	eye.W = fixed.One
	cam := NewCamera()
	cam.SetPosition(eye)
	cam.LookAt(center)

	side := radius + radius>>3
	b := math3d.Bounds{
		Left: -side, Right: side,
		Top: side, Bottom: -side,
		Near: radius, Far: 3 * radius,
	}
	f, err := raster.NewFrustum(b, fixed.One, raster.Orthographic, size, size)
	if err != nil {
		return nil, fmt.Errorf("shadow map: %w", err)
	}
	// build the projection before Occluded shares it across bands
	f.Projection()

	sm := &ShadowMap{
		Depth:   NewDepthBuffer(size, size),
		Bias:    fixed.FromFraction(2, size),
		view:    *cam.ViewMatrix(),
		frustum: f,
	}
	sm.raster = raster.NewRasterizer(f, DepthSink{Depth: sm.Depth}, raster.WithVariant(raster.Flat))
	return sm, nil
}

// Clear empties the map. Call it before rendering a new frame's casters.
func (sm *ShadowMap) Clear() {
	sm.Depth.Clear()
}

// Frustum returns the light's orthographic frustum.
func (sm *ShadowMap) Frustum() *raster.Frustum { return sm.frustum }

// Stats returns the depth pass statistics.
func (sm *ShadowMap) Stats() raster.CullingStats { return sm.raster.Stats() }

// Render draws mesh, placed by model, into the map. Both faces of every
// triangle cast shadows.
func (sm *ShadowMap) Render(mesh *models.Mesh, model *math3d.Mat4) {
	var m math3d.Mat4
	m.Mul(model, &sm.view)

	sm.proj = sm.proj[:0]
	for i := range mesh.Vertices {
		sm.proj = append(sm.proj, sm.frustum.Project(m.MulVec(mesh.Vertices[i].Position)))
	}
	for i := range mesh.Faces {
		for c, idx := range mesh.Faces[i].V {
			sm.tri.Pos[c] = sm.proj[idx]
		}
		sm.raster.Draw(&sm.tri)
	}
}

// lightSpace returns the map position and depth of a world-space point.
func (sm *ShadowMap) lightSpace(world math3d.Vec4) math3d.Vec4 {
	return sm.frustum.Project(sm.view.MulVec(world))
}

// Occluded reports whether something in the map lies between the light and
// the world-space point. Points outside the map are never occluded.
func (sm *ShadowMap) Occluded(world math3d.Vec4) bool {
	p := sm.lightSpace(world)
	d := sm.Depth.At(p.X.Round(), p.Y.Round())
	if d == fixed.Max {
		return false
	}
	return p.Z-sm.Bias > d
}
