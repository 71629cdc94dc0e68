package skinbrief

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

type fakeOverlay struct {
	img   image.Image
	err   error
	calls int
}

func (f *fakeOverlay) Load(ctx context.Context) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func (f *fakeOverlay) String() string { return "fake" }

func TestCompositeBlend(t *testing.T) {
	base := fillImage(64, 64, color.NRGBA{R: 200, G: 100, B: 0, A: 255})
	overlay := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	overlay.SetNRGBA(0, 0, color.NRGBA{A: 255})
	overlay.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 128})

	out := Composite(base, overlay, CompositeOptions{})

	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{A: 255}) {
		t.Errorf("opaque overlay: expected black, got %v", got)
	}
	if got := out.NRGBAAt(2, 0); got != base.NRGBAAt(2, 0) {
		t.Errorf("transparent overlay: expected base, got %v", got)
	}
	// out = src*a + dst*(1-a) with a = 128/255
	got := out.NRGBAAt(1, 0)
	want := color.NRGBA{R: 100, G: 50, B: 128, A: 255}
	if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 || got.A != 255 {
		t.Errorf("half overlay: expected about %v, got %v", want, got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestCompositeKeepsBaseSize(t *testing.T) {
	base := fillImage(64, 32, color.NRGBA{G: 255, A: 255})
	overlay := fillImage(16, 16, color.NRGBA{R: 255, A: 255})

	for _, f := range []Filter{FilterNearest, FilterBilinear, FilterCatmullRom} {
		out := Composite(base, overlay, CompositeOptions{Filter: f})
		if out.Bounds() != image.Rect(0, 0, 64, 32) {
			t.Errorf("%v: expected 64x32 output, got %v", f, out.Bounds())
		}
		if got := out.NRGBAAt(32, 16); got.R < 250 {
			t.Errorf("%v: expected stretched overlay, got %v", f, got)
		}
	}
}

func TestCompositeFromLoadError(t *testing.T) {
	base := fillImage(64, 64, color.NRGBA{A: 255})
	cause := errors.New("gone")
	_, err := CompositeFrom(context.Background(), base, &fakeOverlay{err: cause}, CompositeOptions{})

	var ae *AssetLoadError
	if !errors.As(err, &ae) {
		t.Fatalf("Expected AssetLoadError, got %v", err)
	}
	if ae.Location != "fake" || !errors.Is(err, cause) {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{"": FilterNearest, "Bilinear": FilterBilinear, "catmullrom": FilterCatmullRom} {
		got, err := ParseFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFilter("lanczos"); err == nil {
		t.Error("Expected error for unknown filter")
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveFile(dir, fillImage(64, 64, color.NRGBA{R: 1, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != DefaultFilename {
		t.Errorf("Expected %s, got %s", DefaultFilename, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	skin, err := DecodeBytes(data)
	if err != nil || skin.Format != "png" {
		t.Errorf("Expected readable png, got %v", err)
	}

	if _, err := SaveFile(filepath.Join(dir, "missing"), image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("Expected error for missing directory")
	}
}
