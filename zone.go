package skinbrief

import (
	"image"
	"image/color"
)

// Variant is the skin layout, derived from the texture height.
type Variant int

const (
	// Tall is the 64x64 layout with a second (overlay) layer for body and limbs.
	Tall Variant = iota
	// Short is the legacy 64x32 layout without overlay body parts.
	Short
)

func (v Variant) String() string {
	switch v {
	case Short:
		return "short"
	default:
		return "tall"
	}
}

// VariantForHeight maps a texture height to its layout. Only 32 is Short.
func VariantForHeight(h int) Variant {
	if h == 32 {
		return Short
	}
	return Tall
}

// Zone is the meaning of a pixel in the UV layout.
type Zone int

const (
	Other Zone = iota
	Head
	BaseBody
	OverlayBody
)

func (z Zone) String() string {
	switch z {
	case Head:
		return "head"
	case BaseBody:
		return "base"
	case OverlayBody:
		return "overlay"
	default:
		return "other"
	}
}

// headRows is the height of the head band. Every pixel above it belongs to
// the head in both layouts, whatever its x.
const headRows = 16

type zoneRect struct {
	variant Variant
	zone    Zone
	rect    image.Rectangle
}

// zoneTable lists the body and limb rectangles of each layout. Rectangles of
// one variant never overlap.
var zoneTable = []zoneRect{
	// legacy layout: right leg, torso, right arm
	{Short, BaseBody, image.Rect(0, 16, 56, 32)},

	// base layer
	{Tall, BaseBody, image.Rect(0, 16, 56, 32)},
	{Tall, BaseBody, image.Rect(16, 48, 48, 64)},
	// second layer: jacket/sleeve/pants
	{Tall, OverlayBody, image.Rect(0, 32, 56, 48)},
	{Tall, OverlayBody, image.Rect(0, 48, 16, 64)},
	{Tall, OverlayBody, image.Rect(48, 48, 64, 64)},
}

// Classify returns the zone of pixel (x, y) for layout v.
func Classify(v Variant, x, y int) Zone {
	if y >= 0 && y < headRows {
		return Head
	}
	p := image.Pt(x, y)
	for _, zr := range zoneTable {
		if zr.variant == v && p.In(zr.rect) {
			return zr.zone
		}
	}
	return Other
}

// ZoneRects returns the rectangles making up zone z in layout v. The head
// zone is reported as the full-width band of the 64 pixel wide texture.
func ZoneRects(v Variant, z Zone) []image.Rectangle {
	if z == Head {
		return []image.Rectangle{image.Rect(0, 0, 64, headRows)}
	}
	var out []image.Rectangle
	for _, zr := range zoneTable {
		if zr.variant == v && zr.zone == z {
			out = append(out, zr.rect)
		}
	}
	return out
}

// ZonePalette is the color of each zone in a ZoneMask, indexed by Zone.
var ZonePalette = color.Palette{
	Other:       color.NRGBA{0, 0, 0, 0},
	Head:        color.NRGBA{230, 190, 60, 255},
	BaseBody:    color.NRGBA{60, 140, 230, 255},
	OverlayBody: color.NRGBA{220, 70, 90, 255},
}

// ZoneMask renders the classification of a w by h texture in layout v.
func ZoneMask(v Variant, w, h int) *image.Paletted {
	mask := image.NewPaletted(image.Rect(0, 0, w, h), ZonePalette)
	for y := range h {
		for x := range w {
			mask.SetColorIndex(x, y, uint8(Classify(v, x, y)))
		}
	}
	return mask
}
