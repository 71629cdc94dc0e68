package skinbrief

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	SkinWidth       = 64
	SkinHeightTall  = 64
	SkinHeightShort = 32
)

// Skin is a decoded skin texture, normalized to NRGBA at origin (0, 0).
type Skin struct {
	Image   *image.NRGBA
	Format  string
	Variant Variant
	// Warning is set when the texture is not 64x64 or 64x32. The skin is
	// still usable.
	Warning *SizeMismatch
}

// CheckMIME accepts any content type in the image/ family.
func CheckMIME(contentType string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return &DecodeError{Err: fmt.Errorf("unsupported content type %q", contentType)}
	}
	return nil
}

func DecodeBytes(data []byte) (*Skin, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads an image and validates its dimensions. Unreadable input
// returns a *DecodeError; a wrong size is reported on Skin.Warning only.
func Decode(r io.Reader) (*Skin, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil, &DecodeError{Err: errors.New("empty image")}
	}

	skin := &Skin{
		Image:   toNRGBA(img),
		Format:  format,
		Variant: VariantForHeight(size.Y),
	}
	if !ValidSize(size.X, size.Y) {
		skin.Warning = &SizeMismatch{Width: size.X, Height: size.Y}
	}
	return skin, nil
}

func ValidSize(w, h int) bool {
	return w == SkinWidth && (h == SkinHeightTall || h == SkinHeightShort)
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := &image.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(out.Pix, src.Pix)
	return out
}
