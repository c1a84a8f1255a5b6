package render

import (
	"image/color"

	"github.com/taigrr/fxtrophy/pkg/fixed"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// channel converts a Scalar in [0, One] to an 8-bit channel, saturating.
func channel(v fixed.Scalar) uint8 {
	return uint8(fixed.Clamp(fixed.Mul(v, fixed.FromInt(255)).Round(), 0, 255))
}

// unit converts an 8-bit channel to a Scalar in [0, One].
func unit(c uint8) fixed.Scalar {
	return fixed.FromFraction(int(c), 255)
}

// FromScalars builds an opaque color from channels in [0, One].
func FromScalars(r, g, b fixed.Scalar) Color {
	return Color{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

// ToScalars returns the RGB channels of c in [0, One].
func ToScalars(c Color) (r, g, b fixed.Scalar) {
	return unit(c.R), unit(c.G), unit(c.B)
}

// Shade scales the RGB channels of c by intensity, saturating at 255.
func Shade(c Color, intensity fixed.Scalar) Color {
	s := func(v uint8) uint8 {
		return uint8(fixed.Clamp((int32(v)*int32(intensity)+int32(fixed.Half))>>fixed.Bits, 0, 255))
	}
	return Color{R: s(c.R), G: s(c.G), B: s(c.B), A: c.A}
}

// Modulate multiplies two colors channel by channel (texture * vertex color).
func Modulate(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// lerpColor interpolates between two colors with t in [0, One].
func lerpColor(a, b Color, t fixed.Scalar) Color {
	l := func(x, y uint8) uint8 {
		return uint8(int32(x) + (int32(y)-int32(x))*int32(t)>>fixed.Bits)
	}
	return Color{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
