package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. Coordinates are fixed-point
// with (0, 0) at the bottom-left corner and (One, One) at the top-right.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data, top row first
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			// RGBA returns 16-bit values, scale to 8-bit
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := c2
			if (x/checkSize+y/checkSize)%2 == 0 {
				c = c1
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at (u, v).
func (t *Texture) Sample(u, v fixed.Scalar) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = wrapCoord(u, t.WrapU)
	// image rows run top to bottom
	v = fixed.One - wrapCoord(v, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

// wrapCoord brings a coordinate into [0, One] according to mode.
func wrapCoord(c fixed.Scalar, mode WrapMode) fixed.Scalar {
	if mode == WrapClamp {
		return fixed.Clamp(c, 0, fixed.One)
	}
	return c & (fixed.One - 1)
}

// texel scales a coordinate in [0, One] to a texel position with Scalar
// scaling.
func texel(c fixed.Scalar, size int) int64 {
	return int64(c) * int64(size)
}

func (t *Texture) sampleNearest(u, v fixed.Scalar) Color {
	x := min(int(texel(u, t.Width)>>fixed.Bits), t.Width-1)
	y := min(int(texel(v, t.Height)>>fixed.Bits), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

func (t *Texture) sampleBilinear(u, v fixed.Scalar) Color {
	// sample centres sit half a texel in
	fx := texel(u, t.Width) - int64(fixed.Half)
	fy := texel(v, t.Height) - int64(fixed.Half)

	x0, y0 := int(fx>>fixed.Bits), int(fy>>fixed.Bits)
	tx := fixed.Scalar(fx & int64(fixed.One-1))
	ty := fixed.Scalar(fy & int64(fixed.One-1))

	x1 := wrapTexel(x0+1, t.Width, t.WrapU)
	y1 := wrapTexel(y0+1, t.Height, t.WrapV)
	x0 = wrapTexel(x0, t.Width, t.WrapU)
	y0 = wrapTexel(y0, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

// wrapTexel wraps a texel index.
func wrapTexel(x, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return fixed.Clamp(x, 0, size-1)
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}
