package skinbrief

import (
	"context"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// OverlaySource provides the clothing texture drawn over a skin.
type OverlaySource interface {
	Load(ctx context.Context) (image.Image, error)
}

// Filter selects how an overlay of a different size is resampled.
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
	FilterCatmullRom
)

func (f Filter) String() string {
	switch f {
	case FilterBilinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmullrom"
	default:
		return "nearest"
	}
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	case "catmullrom":
		return FilterCatmullRom, nil
	}
	return FilterNearest, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBilinear:
		return draw.BiLinear
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		// skins are pixel art
		return draw.NearestNeighbor
	}
}

type CompositeOptions struct {
	Filter Filter
}

// Composite draws overlay over base with source-over blending. The result
// always has the size of base; the overlay is stretched to fit.
func Composite(base, overlay image.Image, opts CompositeOptions) *image.NRGBA {
	bb := base.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bb.Dx(), bb.Dy()))
	draw.Draw(out, out.Bounds(), base, bb.Min, draw.Src)
	if overlay == nil {
		return out
	}
	ob := overlay.Bounds()
	if ob.Size() == out.Bounds().Size() {
		draw.Draw(out, out.Bounds(), overlay, ob.Min, draw.Over)
		return out
	}
	opts.Filter.interpolator().Scale(out, out.Bounds(), overlay, ob, draw.Over, nil)
	return out
}

// CompositeFrom loads the overlay from src and composites it over base.
// Load failures are returned as *AssetLoadError and no image is produced.
func CompositeFrom(ctx context.Context, base image.Image, src OverlaySource, opts CompositeOptions) (*image.NRGBA, error) {
	if src == nil {
		return nil, &AssetLoadError{Err: fmt.Errorf("no overlay source")}
	}
	overlay, err := src.Load(ctx)
	if err != nil {
		return nil, &AssetLoadError{Location: fmt.Sprint(src), Err: err}
	}
	return Composite(base, overlay, opts), nil
}
