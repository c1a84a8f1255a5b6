package raster

import (
	"testing"

	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
)

func TestFrustumRebuildsOnlyOnChange(t *testing.T) {
	f := newTestFrustum(t, 32, 32)
	f.Projection()
	if f.rebuilds != 1 {
		t.Fatalf("rebuilds after first use = %d, want 1", f.rebuilds)
	}

	// setting the current values is not a change
	b := f.Bounds()
	for range 3 {
		f.SetBounds(b)
		f.SetFocal(f.Focal())
		f.SetProjection(f.Kind())
		if err := f.SetTarget(32, 32); err != nil {
			t.Fatal(err)
		}
		f.Project(math3d.PointInt(0, 0, 0))
	}
	if f.rebuilds != 1 {
		t.Errorf("rebuilds after unchanged setters = %d, want 1", f.rebuilds)
	}

	tests := []struct {
		name   string
		change func()
	}{
		{"bounds", func() { b.Far *= 2; f.SetBounds(b) }},
		{"focal", func() { f.SetFocal(2 * fixed.One) }},
		{"projection", func() { f.SetProjection(Perspective) }},
		{"target", func() {
			if err := f.SetTarget(64, 32); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.change()
			f.Projection()
			f.Projection()
			if want := i + 2; f.rebuilds != want {
				t.Errorf("rebuilds = %d, want %d", f.rebuilds, want)
			}
		})
	}

	// a failed resize leaves the projection alone
	n := f.rebuilds
	if err := f.SetTarget(0, 10); err == nil {
		t.Error("empty target accepted")
	}
	f.Projection()
	if f.rebuilds != n {
		t.Errorf("rebuilds after rejected target = %d, want %d", f.rebuilds, n)
	}
}
