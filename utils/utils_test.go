package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/setanarut/skinbrief"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParsePaletteMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected PaletteMethod
	}{
		{"", PaletteMethodFrequency},
		{"frequency", PaletteMethodFrequency},
		{"DominantColor", PaletteMethodDominantColor},
		{"kmeans", PaletteMethodKMeans},
	}
	for _, test := range tests {
		got, err := ParsePaletteMethod(test.input)
		if err != nil || got != test.expected {
			t.Errorf("ParsePaletteMethod(%q) = %v, %v; expected %v", test.input, got, err, test.expected)
		}
	}
	if _, err := ParsePaletteMethod("median-cut"); err == nil {
		t.Error("Expected error for unknown method")
	}
}

func TestExtractPaletteFrequency(t *testing.T) {
	img := solid(4, 4, color.NRGBA{R: 10, A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{G: 10, A: 255})

	got := ExtractPalette(img, 5, PaletteMethodFrequency)
	if len(got) != 2 {
		t.Fatalf("Expected 2 colors, got %v", got)
	}
	if got[0] != (skinbrief.FillColor{R: 10}) {
		t.Errorf("Expected most frequent color first, got %v", got[0])
	}
	if got := ExtractPalette(img, 0, PaletteMethodKMeans); got != nil {
		t.Errorf("Expected nil for k=0, got %v", got)
	}
}

func TestExtractKMeansSingleColor(t *testing.T) {
	img := solid(8, 8, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	got := ExtractKMeansPalette(img, 4)
	if len(got) != 1 {
		t.Fatalf("Expected 1 color, got %v", got)
	}
	if got[0] != (skinbrief.FillColor{R: 200, G: 40, B: 40}) {
		t.Errorf("Expected the only color back, got %v", got[0])
	}
}

func TestExtractKMeansTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if got := ExtractKMeansPalette(img, 3); len(got) != 0 {
		t.Errorf("Expected no colors, got %v", got)
	}
}

func TestSelectDistinctDropsNearDuplicates(t *testing.T) {
	near := []weightedColor{
		{Col: skinbrief.FillColor{R: 100}.Colorful(), Weight: 10},
		{Col: skinbrief.FillColor{R: 101}.Colorful(), Weight: 9},
		{Col: skinbrief.FillColor{B: 200}.Colorful(), Weight: 1},
	}
	got := selectDistinct(near, 3)
	if len(got) != 2 {
		t.Fatalf("Expected 2 distinct colors, got %v", got)
	}
	if got[0] != (skinbrief.FillColor{R: 100}) || got[1] != (skinbrief.FillColor{B: 200}) {
		t.Errorf("Unexpected selection %v", got)
	}
}

func TestSortPaletteByBrightness(t *testing.T) {
	palette := []skinbrief.FillColor{{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 255}, {R: 0, G: 0, B: 0}, {R: 0, G: 255, B: 0}}
	SortPaletteByBrightness(palette)
	expected := []skinbrief.FillColor{{R: 0, G: 0, B: 0}, {R: 0, G: 0, B: 255}, {R: 0, G: 255, B: 0}, {R: 255, G: 255, B: 255}}
	for i := range expected {
		if palette[i] != expected[i] {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], palette[i])
		}
	}
}

func TestPaletteSwatch(t *testing.T) {
	palette := []skinbrief.FillColor{{R: 255}, {G: 255}}
	img := PaletteSwatch(palette, 8)
	if img.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("Unexpected swatch bounds %v", img.Bounds())
	}
	if got := img.NRGBAAt(7, 7); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("Expected red tile, got %v", got)
	}
	if got := img.NRGBAAt(8, 0); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("Expected green tile, got %v", got)
	}
}

func TestSavePaletteAndReadSkin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.png")
	if err := SavePalette(nil, 8, path); err == nil {
		t.Error("Expected error for empty palette")
	}
	if err := SavePalette([]skinbrief.FillColor{{R: 1}, {G: 1}}, 16, path); err != nil {
		t.Fatal(err)
	}
	skin, err := ReadSkin(path)
	if err != nil {
		t.Fatal(err)
	}
	if skin.Warning == nil || skin.Warning.Width != 32 || skin.Warning.Height != 16 {
		t.Errorf("Expected a 32x16 size warning, got %+v", skin.Warning)
	}
	if _, err := ReadSkin(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}
