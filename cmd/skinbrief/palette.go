package main

import (
	"fmt"

	"github.com/setanarut/skinbrief"
	"github.com/setanarut/skinbrief/utils"
	"github.com/spf13/cobra"
)

type paletteOptions struct {
	k      int
	method string
	swatch string
	sorted bool
}

func newPaletteCmd(a *app) *cobra.Command {
	opts := &paletteOptions{}

	cmd := &cobra.Command{
		Use:   "palette <skin.png>",
		Short: "Print the suggested fill colors of a skin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.k, "colors", "k", skinbrief.DefaultPaletteSize, "number of colors")
	cmd.Flags().StringVar(&opts.method, "method", "frequency", "frequency, dominantcolor or kmeans")
	cmd.Flags().StringVar(&opts.swatch, "swatch", "", "write the palette as a PNG swatch to this file")
	cmd.Flags().BoolVar(&opts.sorted, "sort", false, "order colors from dark to bright")
	return cmd
}

func runPalette(cmd *cobra.Command, a *app, opts *paletteOptions, path string) error {
	method, err := utils.ParsePaletteMethod(opts.method)
	if err != nil {
		return err
	}
	skin, err := utils.ReadSkin(path)
	if err != nil {
		return err
	}
	if skin.Warning != nil {
		a.lg.Warn("%v", skin.Warning)
	}

	w := cmd.OutOrStdout()
	if method == utils.PaletteMethodFrequency && !opts.sorted {
		entries := skinbrief.AnalyzePalette(skin.Image, opts.k)
		summary := skinbrief.SummarizePalette(entries)
		for i, e := range entries {
			fmt.Fprintf(w, "%2d  %s  %5d  %5.1f%%\n", i, e.Color.Hex(), e.Count, summary.Share[i]*100)
		}
		fmt.Fprintf(w, "lightness %.3f ± %.3f over %d pixels\n",
			summary.MeanLightness, summary.StdDevLightness, summary.Total)
		return writeSwatch(opts, paletteColors(entries))
	}

	colors := utils.ExtractPalette(skin.Image, opts.k, method)
	if opts.sorted {
		utils.SortPaletteByBrightness(colors)
	}
	for i, c := range colors {
		fmt.Fprintf(w, "%2d  %s\n", i, c.Hex())
	}
	return writeSwatch(opts, colors)
}

func paletteColors(entries []skinbrief.PaletteEntry) []skinbrief.FillColor {
	out := make([]skinbrief.FillColor, len(entries))
	for i, e := range entries {
		out[i] = e.Color
	}
	return out
}

func writeSwatch(opts *paletteOptions, colors []skinbrief.FillColor) error {
	if opts.swatch == "" {
		return nil
	}
	return utils.SavePalette(colors, 32, opts.swatch)
}
