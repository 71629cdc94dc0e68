package skinbrief

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FillColor is an opaque RGB fill. Recoloring always forces full opacity.
type FillColor struct {
	R, G, B uint8
}

func (c FillColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

func (c FillColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c FillColor) String() string { return c.Hex() }

// Colorful converts c for color math.
func (c FillColor) Colorful() colorful.Color {
	col, _ := colorful.MakeColor(c)
	return col
}

// FillFromColorful clamps a colorful.Color back into 8-bit RGB.
func FillFromColorful(c colorful.Color) FillColor {
	r, g, b := c.Clamped().RGB255()
	return FillColor{R: r, G: g, B: b}
}

// ParseHexColor accepts "#rrggbb", "rrggbb", "#rgb" and "rgb".
func ParseHexColor(s string) (FillColor, error) {
	in := strings.TrimSpace(s)
	if !strings.HasPrefix(in, "#") {
		in = "#" + in
	}
	if len(in) != 4 && len(in) != 7 {
		return FillColor{}, &InvalidColorInput{Input: s}
	}
	for _, r := range in[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return FillColor{}, &InvalidColorInput{Input: s}
		}
	}
	col, err := colorful.Hex(strings.ToLower(in))
	if err != nil {
		return FillColor{}, &InvalidColorInput{Input: s}
	}
	return FillFromColorful(col), nil
}

// Recolor returns a copy of src with the body and limbs filled with fill.
// Opaque-ish base pixels take the fill at full opacity, transparent ones stay
// transparent so the silhouette survives. Overlay-layer and unassigned
// pixels below the head are cleared. The head band is never touched.
// A nil fill returns an unchanged copy.
func Recolor(src *image.NRGBA, v Variant, fill *FillColor) *image.NRGBA {
	out := cloneNRGBA(src)
	if fill == nil {
		return out
	}
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := headRows; y < h; y++ {
		for x := range w {
			i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := out.Pix[i : i+4 : i+4]
			switch Classify(v, x, y) {
			case BaseBody:
				if px[3] == 0 {
					continue
				}
				px[0], px[1], px[2], px[3] = fill.R, fill.G, fill.B, 255
			case OverlayBody, Other:
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			}
		}
	}
	return out
}
