package render

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/models"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// Wireframe draws 3D lines with the camera's projection. Lines ignore the
// depth buffer.
type Wireframe struct {
	camera  *Camera
	fb      *Framebuffer
	frustum *raster.Frustum
}

// NewWireframe creates a wireframe renderer projecting through f.
func NewWireframe(camera *Camera, fb *Framebuffer, f *raster.Frustum) *Wireframe {
	return &Wireframe{
		camera:  camera,
		fb:      fb,
		frustum: f,
	}
}

// clipNear moves a towards b until it reaches the near plane. Both are in
// view space; b must be in front of the plane.
func clipNear(a, b math3d.Vec4, near fixed.Scalar) math3d.Vec4 {
	t := fixed.Div(near-a.Z, fixed.NonZero(b.Z-a.Z))
	var p math3d.Vec4
	p.Lerp(a, b, t)
	p.Z = near
	return p
}

// DrawLine3D draws a world-space line. The part behind the near plane is
// cut off.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec4, color Color) {
	view := w.camera.ViewMatrix()
	a, b := view.MulVec(p1), view.MulVec(p2)

	near := w.camera.Near
	switch {
	case a.Z < near && b.Z < near:
		return
	case a.Z < near:
		a = clipNear(a, b, near)
	case b.Z < near:
		b = clipNear(b, a, near)
	}

	sa, sb := w.frustum.Project(a), w.frustum.Project(b)
	w.fb.DrawLine(sa.X.Round(), sa.Y.Round(), sb.X.Round(), sb.Y.Round(), color)
}

// DrawMesh draws every triangle edge of mesh placed by model.
func (w *Wireframe) DrawMesh(mesh *models.Mesh, model *math3d.Mat4, color Color) {
	world := make([]math3d.Vec4, len(mesh.Vertices))
	for i := range mesh.Vertices {
		world[i] = model.MulVec(mesh.Vertices[i].Position)
	}
	for _, f := range mesh.Faces {
		w.DrawLine3D(world[f.V[0]], world[f.V[1]], color)
		w.DrawLine3D(world[f.V[1]], world[f.V[2]], color)
		w.DrawLine3D(world[f.V[2]], world[f.V[0]], color)
	}
}

// DrawBox draws the twelve edges of a box.
func (w *Wireframe) DrawBox(box AABB, color Color) {
	for i := range 8 {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				w.DrawLine3D(box.Corner(i), box.Corner(i|bit), color)
			}
		}
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length fixed.Scalar) {
	origin := math3d.Point(0, 0, 0)
	w.DrawLine3D(origin, math3d.Point(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.Point(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.Point(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step fixed.Scalar, color Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.Point(x, 0, -half), math3d.Point(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.Point(-half, 0, z), math3d.Point(half, 0, z), color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec4, size fixed.Scalar, color Color) {
	h := size / 2
	w.DrawLine3D(math3d.Point(pos.X-h, pos.Y, pos.Z), math3d.Point(pos.X+h, pos.Y, pos.Z), color)
	w.DrawLine3D(math3d.Point(pos.X, pos.Y-h, pos.Z), math3d.Point(pos.X, pos.Y+h, pos.Z), color)
	w.DrawLine3D(math3d.Point(pos.X, pos.Y, pos.Z-h), math3d.Point(pos.X, pos.Y, pos.Z+h), color)
}
