package skinbrief

import (
	"image"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// DefaultPaletteSize is the number of suggested colors when none is given.
const DefaultPaletteSize = 12

type PaletteEntry struct {
	Color FillColor `json:"color"`
	Count int       `json:"count"`
}

// AnalyzePalette counts the distinct RGB values of all non-transparent
// pixels and returns the k most frequent, most frequent first. Equal counts
// keep the order in which the colors were first seen.
func AnalyzePalette(img image.Image, k int) []PaletteEntry {
	if k <= 0 || img == nil {
		return nil
	}
	n := toNRGBA(img)
	b := n.Bounds()

	index := make(map[FillColor]int)
	var entries []PaletteEntry
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := n.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			key := FillColor{R: c.R, G: c.G, B: c.B}
			if i, ok := index[key]; ok {
				entries[i].Count++
				continue
			}
			index[key] = len(entries)
			entries = append(entries, PaletteEntry{Color: key, Count: 1})
		}
	}

	slices.SortStableFunc(entries, func(a, b PaletteEntry) int {
		return b.Count - a.Count
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

// PaletteSummary describes how a palette is spread.
type PaletteSummary struct {
	Total int       `json:"total"`
	Share []float64 `json:"share"`
	// Count-weighted CIE L* of the entries, in [0, 1].
	MeanLightness   float64 `json:"meanLightness"`
	StdDevLightness float64 `json:"stdDevLightness"`
}

func SummarizePalette(entries []PaletteEntry) PaletteSummary {
	var s PaletteSummary
	if len(entries) == 0 {
		return s
	}
	lightness := make([]float64, len(entries))
	weights := make([]float64, len(entries))
	for i, e := range entries {
		l, _, _ := e.Color.Colorful().Lab()
		lightness[i] = l
		weights[i] = float64(e.Count)
		s.Total += e.Count
	}
	s.Share = make([]float64, len(entries))
	for i, w := range weights {
		s.Share[i] = w / float64(s.Total)
	}
	if s.Total <= 1 {
		s.MeanLightness = stat.Mean(lightness, weights)
		return s
	}
	s.MeanLightness, s.StdDevLightness = stat.MeanStdDev(lightness, weights)
	if math.IsNaN(s.StdDevLightness) {
		s.StdDevLightness = 0
	}
	return s
}
