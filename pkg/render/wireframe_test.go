package render

import (
	"testing"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/models"
)

func newTestWireframe(t *testing.T) (*Wireframe, *Framebuffer) {
	t.Helper()
	cam := NewCamera()
	fb := NewFramebuffer(64, 64)
	fb.Clear(ColorBlack)
	f, err := cam.Frustum(fb.Width, fb.Height)
	if err != nil {
		t.Fatal(err)
	}
	return NewWireframe(cam, fb, f), fb
}

func TestDrawLine3D(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 math3d.Vec4
		centre bool
		drawn  bool
	}{
		{"across the origin", math3d.PointInt(-1, 0, 0), math3d.PointInt(1, 0, 0), true, true},
		{"through the near plane", math3d.PointInt(0, 0, 0), math3d.PointInt(0, 0, 10), true, true},
		{"behind the camera", math3d.PointInt(-1, 0, 8), math3d.PointInt(1, 0, 8), false, false},
		{"off centre", math3d.PointInt(1, 1, 0), math3d.PointInt(2, 1, 0), false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, fb := newTestWireframe(t)
			w.DrawLine3D(tc.p1, tc.p2, ColorWhite)

			if got := fb.GetPixel(32, 32) == ColorWhite; got != tc.centre {
				t.Errorf("centre set = %v, want %v", got, tc.centre)
			}
			if got := countNot(fb, ColorBlack) > 0; got != tc.drawn {
				t.Errorf("anything drawn = %v, want %v", got, tc.drawn)
			}
		})
	}
}

func TestDrawAxes(t *testing.T) {
	w, fb := newTestWireframe(t)
	w.DrawAxes(fixed.One)

	seen := map[Color]bool{}
	for _, p := range fb.Pixels {
		seen[p] = true
	}
	for _, c := range []Color{ColorRed, ColorGreen, ColorBlue} {
		if !seen[c] {
			t.Errorf("axis colour %v not drawn", c)
		}
	}
}

func TestDrawGrid(t *testing.T) {
	w, fb := newTestWireframe(t)
	w.DrawGrid(fixed.FromInt(4), 0, ColorWhite)
	if n := countNot(fb, ColorBlack); n != 0 {
		t.Errorf("zero step drew %d pixels", n)
	}

	w.DrawGrid(fixed.FromInt(4), fixed.One, ColorWhite)
	if fb.GetPixel(32, 32) != ColorWhite {
		t.Error("grid line through the origin missing")
	}
}

func TestWireframeShapes(t *testing.T) {
	t.Run("mesh", func(t *testing.T) {
		w, fb := newTestWireframe(t)
		model := math3d.Identity()
		w.DrawMesh(models.NewCube(fixed.FromInt(2)), &model, ColorGreen)
		if countNot(fb, ColorBlack) == 0 {
			t.Error("nothing drawn")
		}
		// the front face diagonal crosses the centre
		if fb.GetPixel(32, 32) != ColorGreen {
			t.Error("centre not on an edge")
		}
	})

	t.Run("box", func(t *testing.T) {
		w, fb := newTestWireframe(t)
		w.DrawBox(box(-1, -1, -1, 1, 1, 1), ColorRed)
		if countNot(fb, ColorBlack) == 0 {
			t.Error("nothing drawn")
		}
		// the box has no diagonals
		if fb.GetPixel(32, 32) != ColorBlack {
			t.Error("centre drawn")
		}
	})

	t.Run("point", func(t *testing.T) {
		w, fb := newTestWireframe(t)
		w.DrawPoint(math3d.PointInt(0, 0, 0), fixed.Half, ColorBlue)
		if fb.GetPixel(32, 32) != ColorBlue {
			t.Error("point not drawn at the centre")
		}
	})
}
