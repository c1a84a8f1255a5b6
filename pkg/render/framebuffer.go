// Package render turns meshes into pixels on top of the fixed-point
// rasterizer: frame and depth buffers, fragment sinks for colour, texture,
// per-pixel lighting and shadow passes, the camera, and terminal output.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// DepthBuffer holds one fixed-point depth per pixel. Smaller is closer.
type DepthBuffer struct {
	Width  int
	Height int
	Values []fixed.Scalar // Row-major
}

// NewDepthBuffer creates a depth buffer cleared to the far limit.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Width: width, Height: height, Values: make([]fixed.Scalar, width*height)}
	d.Clear()
	return d
}

// Clear resets every depth to fixed.Max (call before each frame).
func (d *DepthBuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(d.Values)
	if n == 0 {
		return
	}
	d.Values[0] = fixed.Max
	for i := 1; i < n; i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the depth at (x, y), or fixed.Max outside the buffer.
func (d *DepthBuffer) At(x, y int) fixed.Scalar {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return fixed.Max
	}
	return d.Values[y*d.Width+x]
}

// Test stores z at (x, y) and reports true if z is closer than the stored
// depth. Pixels outside the buffer always fail.
func (d *DepthBuffer) Test(x, y int, z fixed.Scalar) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	i := y*d.Width + x
	if z >= d.Values[i] {
		return false
	}
	d.Values[i] = z
	return true
}

// Framebuffer is a 2D array of pixels with a depth buffer that can be
// rendered to the terminal. The terminal view uses half-block characters
// (▀), so Height is twice the number of terminal rows.
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
	Depth  *DepthBuffer
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  NewDepthBuffer(width, height),
	}
}

// Clear fills the framebuffer with a solid color and resets the depth
// buffer.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
	fb.Depth.Clear()
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. It ignores the depth buffer.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := fixed.Abs(x1 - x0)
	dy := -fixed.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := fb.Pixels[py*fb.Width:]
		for px := r.Min.X; px < r.Max.X; px++ {
			row[px] = c
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
