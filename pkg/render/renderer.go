package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/models"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// FrameStats summarises one frame.
type FrameStats struct {
	Meshes       int // Meshes passed to DrawMesh
	MeshesCulled int // Meshes rejected by their bounding box
	NearClipped  int // Triangles dropped for crossing the near plane

	raster.CullingStats
}

// Renderer turns meshes into triangles for the rasterizer: model to world to
// view space, projection through the camera frustum, and a fragment sink
// picked from the variant.
type Renderer struct {
	FB     *Framebuffer
	Camera *Camera
	Light  Light

	// Variant selects the interpolated attributes. Variants without
	// normals are lit per vertex (Gouraud) or per face (Flat); variants
	// with normals are lit per fragment.
	Variant raster.Variant

	// Shadow, when set, darkens fragments lit per fragment.
	Shadow *ShadowMap

	// Bands is the number of horizontal bands rasterized in parallel.
	Bands int

	DisableBackfaceCulling bool
	DisableMeshCulling     bool

	frustum *raster.Frustum
	volume  ViewVolume
	mats    *math3d.Arena // per-frame matrices
	bands   *raster.Bands
	nBands  int

	world  []math3d.Vec4
	normal []math3d.Vec4
	view   []math3d.Vec4
	tris   []raster.Triangle
	stats  FrameStats
}

// NewRenderer creates a renderer drawing into fb through cam.
func NewRenderer(fb *Framebuffer, cam *Camera) (*Renderer, error) {
	f, err := cam.Frustum(fb.Width, fb.Height)
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}
	return &Renderer{
		FB:      fb,
		Camera:  cam,
		Light:   DefaultLight(),
		Variant: raster.Gouraud,
		Bands:   1,
		frustum: f,
		mats:    math3d.NewArena(16),
	}, nil
}

// Frustum returns the camera frustum, current as of the last BeginFrame.
func (r *Renderer) Frustum() *raster.Frustum { return r.frustum }

// SetFramebuffer switches to a new target, typically after a resize.
func (r *Renderer) SetFramebuffer(fb *Framebuffer) error {
	if err := r.frustum.SetTarget(fb.Width, fb.Height); err != nil {
		return fmt.Errorf("set framebuffer: %w", err)
	}
	r.FB = fb
	r.bands = nil
	return nil
}

// BeginFrame clears the target to bg and picks up camera changes.
func (r *Renderer) BeginFrame(bg Color) {
	r.FB.Clear(bg)
	r.Camera.UpdateFrustum(r.frustum)
	r.volume = NewViewVolume(r.frustum)
	r.mats.Reset()
	r.stats = FrameStats{}
	if r.bands != nil {
		r.bands.ResetStats()
	}
}

// EndFrame returns the frame's statistics and logs them at debug level.
func (r *Renderer) EndFrame() FrameStats {
	if r.bands != nil {
		r.stats.CullingStats = r.bands.Stats()
	}
	s := r.stats
	raster.Logger().Debug("frame",
		slog.String("variant", r.Variant.String()),
		slog.Int("meshes", s.Meshes),
		slog.Int("meshes_culled", s.MeshesCulled),
		slog.Int("near_clipped", s.NearClipped),
		slog.Int("tested", s.Tested),
		slog.Int("drawn", s.Drawn),
		slog.Int("culled", s.CulledTotal()),
		slog.Int("fragments", s.Fragments),
	)
	return s
}

// ensureBands (re)creates the band rasterizers after the target or the
// band count changed.
func (r *Renderer) ensureBands() error {
	n := max(r.Bands, 1)
	if r.bands != nil && r.nBands == n {
		return nil
	}
	b, err := raster.NewBands(r.frustum, n, func(int) raster.FragmentSink { return raster.Discard })
	if err != nil {
		return err
	}
	r.bands, r.nBands = b, n
	return nil
}

// sink picks the fragment sink for the current variant.
func (r *Renderer) sink(tex *Texture) raster.FragmentSink {
	ch := r.Variant.Channels
	if !ch.Has(raster.ChanUV) {
		tex = nil
	}
	switch {
	case ch.Has(raster.ChanNormal | raster.ChanWorld):
		return PhongSink{FB: r.FB, Light: r.Light, Tex: tex, Shadow: r.Shadow}
	case tex != nil:
		return TextureSink{FB: r.FB, Tex: tex}
	}
	return ColorSink{FB: r.FB}
}

// perFragment reports whether lighting is left to the sink.
func (r *Renderer) perFragment() bool {
	return r.Variant.Channels.Has(raster.ChanNormal)
}

// DrawMesh transforms mesh by model and rasterizes it. tex is used by
// variants with texture coordinates and may be nil.
func (r *Renderer) DrawMesh(ctx context.Context, mesh *models.Mesh, model *math3d.Mat4, tex *Texture) error {
	r.stats.Meshes++

	modelView := r.mats.Alloc().Mul(model, r.Camera.ViewMatrix())

	if !r.DisableMeshCulling {
		lo, hi := mesh.GetBounds()
		if !r.volume.IntersectAABB(NewAABB(lo, hi).Transform(modelView)) {
			r.stats.MeshesCulled++
			return nil
		}
	}

	r.transformVertices(mesh, model)
	r.buildTriangles(mesh)
	if len(r.tris) == 0 {
		return nil
	}

	if err := r.ensureBands(); err != nil {
		return fmt.Errorf("draw mesh %s: %w", mesh.Name, err)
	}
	face := raster.FaceCullBack
	if r.DisableBackfaceCulling {
		face = raster.FaceCullNone
	}
	sink := r.sink(tex)
	for i := range r.bands.Len() {
		band := r.bands.Band(i)
		band.SetSink(sink)
		band.SetFaceCull(face)
	}
	r.bands.SetVariant(r.Variant)

	if err := r.bands.Draw(ctx, r.tris); err != nil {
		return fmt.Errorf("draw mesh %s: %w", mesh.Name, err)
	}
	return nil
}

// transformVertices fills the world, normal and view scratch slices.
func (r *Renderer) transformVertices(mesh *models.Mesh, model *math3d.Mat4) {
	view := r.Camera.ViewMatrix()
	r.world, r.normal, r.view = r.world[:0], r.normal[:0], r.view[:0]
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		w := model.MulVec(v.Position)
		n := model.MulDir(v.Normal)
		n.Normalize()
		r.world = append(r.world, w)
		r.normal = append(r.normal, n)
		r.view = append(r.view, view.MulVec(w))
	}
}

// materialColor returns the RGB of a face's material, white without one.
func materialColor(mesh *models.Mesh, face int) [3]fixed.Scalar {
	if m := mesh.GetMaterial(mesh.GetFaceMaterial(face)); m != nil {
		return [3]fixed.Scalar{m.Color[0], m.Color[1], m.Color[2]}
	}
	return [3]fixed.Scalar{fixed.One, fixed.One, fixed.One}
}

// buildTriangles projects every face in front of the near plane.
func (r *Renderer) buildTriangles(mesh *models.Mesh) {
	near := r.Camera.Near
	ch := r.Variant.Channels
	lit := !r.perFragment()

	r.tris = r.tris[:0]
	for fi := range mesh.Faces {
		idx := mesh.Faces[fi].V
		if r.view[idx[0]].Z < near || r.view[idx[1]].Z < near || r.view[idx[2]].Z < near {
			r.stats.NearClipped++
			continue
		}

		r.tris = append(r.tris, raster.Triangle{})
		t := &r.tris[len(r.tris)-1]
		base := materialColor(mesh, fi)

		for c, vi := range idx {
			p := r.frustum.Project(r.view[vi])
			p.X, p.Y = fixed.Snap(p.X), fixed.Snap(p.Y)
			t.Pos[c] = p

			if ch.Has(raster.ChanUV) {
				v := &mesh.Vertices[vi]
				t.SetUV(c, v.U, v.V)
			}
			if ch.Has(raster.ChanWorld) {
				t.SetWorld(c, r.world[vi])
			}
			if ch.Has(raster.ChanNormal) {
				t.SetNormal(c, r.normal[vi])
			}
			if ch.Has(raster.ChanColor) {
				k := r.Light.Intensity(r.normal[vi])
				t.SetColor(c, fixed.Mul(base[0], k), fixed.Mul(base[1], k), fixed.Mul(base[2], k))
			}
		}

		if !lit {
			t.SetFlat(base[0], base[1], base[2])
			continue
		}
		n := r.normal[idx[0]]
		n.Add(r.normal[idx[1]]).Add(r.normal[idx[2]]).Normalize()
		k := r.Light.Intensity(n)
		t.SetFlat(fixed.Mul(base[0], k), fixed.Mul(base[1], k), fixed.Mul(base[2], k))
	}
}
