package raster

import (
	"fmt"
	"strings"
)

// Attribute slots carried by a Triangle and a Fragment.
const (
	AttrR = iota
	AttrG
	AttrB
	AttrU
	AttrV
	AttrWorldX
	AttrWorldY
	AttrWorldZ
	AttrNormalX
	AttrNormalY
	AttrNormalZ

	// NumAttrs is the number of attribute slots.
	NumAttrs
)

// InterpolateBits is the precision, in bits, dropped from 1/w before the
// per-pixel perspective multiply and restored after it. It keeps the
// product of a premultiplied attribute and w inside 64 bits for attribute
// magnitudes up to 2^23.
const InterpolateBits = 8

// Channels is a set of interpolated attribute groups.
type Channels uint8

// Attribute groups.
const (
	ChanColor  Channels = 1 << iota // AttrR..AttrB
	ChanUV                          // AttrU, AttrV
	ChanWorld                       // AttrWorldX..AttrWorldZ
	ChanNormal                      // AttrNormalX..AttrNormalZ
)

// Has reports whether every group in o is present in c.
func (c Channels) Has(o Channels) bool {
	return c&o == o
}

// attrs appends the attribute slots selected by c to dst.
func (c Channels) attrs(dst []int) []int {
	if c.Has(ChanColor) {
		dst = append(dst, AttrR, AttrG, AttrB)
	}
	if c.Has(ChanUV) {
		dst = append(dst, AttrU, AttrV)
	}
	if c.Has(ChanWorld) {
		dst = append(dst, AttrWorldX, AttrWorldY, AttrWorldZ)
	}
	if c.Has(ChanNormal) {
		dst = append(dst, AttrNormalX, AttrNormalY, AttrNormalZ)
	}
	return dst
}

func (c Channels) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		c    Channels
		name string
	}{{ChanColor, "color"}, {ChanUV, "uv"}, {ChanWorld, "world"}, {ChanNormal, "normal"}} {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Variant selects which attributes a Rasterizer interpolates and whether it
// corrects them for perspective. Depth is always interpolated affinely.
type Variant struct {
	Channels    Channels
	Perspective bool
}

// Predefined variants.
var (
	Flat    = Variant{}
	Gouraud = Variant{Channels: ChanColor}
	Phong   = Variant{Channels: ChanWorld | ChanNormal}

	AffineFlat    = Variant{Channels: ChanUV}
	AffineGouraud = Variant{Channels: ChanColor | ChanUV}

	PerspectiveFlat    = Variant{Channels: ChanUV, Perspective: true}
	PerspectiveGouraud = Variant{Channels: ChanColor | ChanUV, Perspective: true}
	PerspectivePhong   = Variant{Channels: ChanUV | ChanWorld | ChanNormal, Perspective: true}
)

var variantNames = []struct {
	name string
	v    Variant
}{
	{"flat", Flat},
	{"gouraud", Gouraud},
	{"phong", Phong},
	{"affine-flat", AffineFlat},
	{"affine-gouraud", AffineGouraud},
	{"perspective-flat", PerspectiveFlat},
	{"perspective-gouraud", PerspectiveGouraud},
	{"perspective-phong", PerspectivePhong},
}

// ParseVariant returns the predefined variant with the given name, such as
// "gouraud" or "perspective-phong".
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range variantNames {
		if n.name == name {
			return n.v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}

// VariantNames returns the names accepted by ParseVariant.
func VariantNames() []string {
	names := make([]string, len(variantNames))
	for i, n := range variantNames {
		names[i] = n.name
	}
	return names
}

func (v Variant) String() string {
	for _, n := range variantNames {
		if n.v == v {
			return n.name
		}
	}
	if v.Perspective {
		return "perspective(" + v.Channels.String() + ")"
	}
	return "affine(" + v.Channels.String() + ")"
}
