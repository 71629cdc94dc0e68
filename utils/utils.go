package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/skinbrief"
)

type PaletteMethod int

const (
	// PaletteMethodFrequency counts exact colors, most frequent first.
	PaletteMethodFrequency PaletteMethod = iota
	PaletteMethodDominantColor
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodDominantColor:
		return "dominantcolor"
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "frequency"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	for _, m := range []PaletteMethod{PaletteMethodFrequency, PaletteMethodDominantColor, PaletteMethodKMeans} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	if s == "" {
		return PaletteMethodFrequency, nil
	}
	return PaletteMethodFrequency, fmt.Errorf("unknown palette method %q", s)
}

// minLabDistance keeps near-identical shades from filling a suggested
// palette. Only the clustering methods use it.
const minLabDistance = 0.04

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// ExtractPalette suggests up to k fill colors for img.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []skinbrief.FillColor {
	if k <= 0 {
		return nil
	}
	switch method {
	case PaletteMethodDominantColor:
		return ExtractDominantPalette(img, k)
	case PaletteMethodKMeans:
		if p := ExtractKMeansPalette(img, k); len(p) != 0 {
			return p
		}
		return ExtractDominantPalette(img, k)
	default:
		entries := skinbrief.AnalyzePalette(img, k)
		out := make([]skinbrief.FillColor, len(entries))
		for i, e := range entries {
			out[i] = e.Color
		}
		return out
	}
}

func ExtractDominantPalette(img image.Image, k int) []skinbrief.FillColor {
	candidates := dominantcolor.FindWeight(img, max(k*3, 8))
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		if c.RGBA.A == 0 {
			continue
		}
		col, _ := colorful.MakeColor(color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255})
		weighted = append(weighted, weightedColor{Col: col, Weight: c.Weight})
	}
	return selectDistinct(weighted, k)
}

func ExtractKMeansPalette(img image.Image, k int) []skinbrief.FillColor {
	b := img.Bounds()
	distinct := make(map[color.NRGBA]struct{})
	var dataset clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			distinct[c] = struct{}{}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	workK := min(k, len(distinct))
	if workK == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDistinct(weighted, k)
}

// selectDistinct takes candidates heaviest first and drops any within
// minLabDistance of one already taken.
func selectDistinct(cands []weightedColor, k int) []skinbrief.FillColor {
	slices.SortStableFunc(cands, func(a, b weightedColor) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	var picked []colorful.Color
	for _, c := range cands {
		if len(picked) == k {
			break
		}
		if slices.ContainsFunc(picked, func(p colorful.Color) bool {
			return p.DistanceLab(c.Col) < minLabDistance
		}) {
			continue
		}
		picked = append(picked, c.Col)
	}
	out := make([]skinbrief.FillColor, len(picked))
	for i, c := range picked {
		out[i] = skinbrief.FillFromColorful(c)
	}
	return out
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []skinbrief.FillColor) {
	luminance := func(c skinbrief.FillColor) float64 {
		r, g, b := c.Colorful().LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortStableFunc(palette, func(a, b skinbrief.FillColor) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

func ReadSkin(path string) (*skinbrief.Skin, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return skinbrief.Decode(file)
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette writes the palette as a row of square swatches.
func SavePalette(palette []skinbrief.FillColor, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	return SaveImage(PaletteSwatch(palette, tileSize), filename)
}

func PaletteSwatch(palette []skinbrief.FillColor, tileSize int) *image.NRGBA {
	if tileSize <= 0 {
		tileSize = 16
	}
	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		x0 := i * tileSize
		for y := range tileSize {
			for x := x0; x < x0+tileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}
	return img
}
