package main

import (
	"fmt"
	"path/filepath"

	"github.com/setanarut/skinbrief"
	"github.com/setanarut/skinbrief/asset"
	"github.com/setanarut/skinbrief/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type compositeOptions struct {
	outDir string
	color  string
	pick   int
	zones  string
}

func newCompositeCmd(a *app) *cobra.Command {
	opts := &compositeOptions{}

	cmd := &cobra.Command{
		Use:   "composite <skin.png>",
		Short: "Recolor a skin and composite the overlay onto it",
		Long: `Loads a skin, optionally fills the body and limbs with a color, draws the
overlay on top and writes composited_skin.png into the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComposite(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.color, "color", "", "fill color as #rrggbb")
	cmd.Flags().IntVar(&opts.pick, "pick", -1, "fill with the n-th palette color (0 is the most frequent)")
	cmd.Flags().StringVar(&opts.zones, "zones", "", "also write the zone map of the skin to this file")
	cmd.MarkFlagsMutuallyExclusive("color", "pick")
	return cmd
}

func runComposite(cmd *cobra.Command, a *app, opts *compositeOptions, path string) error {
	lg := a.lg.With(zap.String("skin", path))

	skin, err := utils.ReadSkin(path)
	if err != nil {
		return err
	}
	if skin.Warning != nil {
		lg.Warn("%v", skin.Warning)
	}

	filter, err := skinbrief.ParseFilter(a.cfg.Filter)
	if err != nil {
		return err
	}

	session := skinbrief.NewSession()
	session.Options.Filter = filter
	if a.cfg.PaletteSize > 0 {
		session.PaletteSize = a.cfg.PaletteSize
	}

	t := session.BeginUpload()
	if _, err := session.CompleteUpload(t, skin, nil); err != nil {
		return err
	}

	var status skinbrief.Status
	switch {
	case opts.color != "":
		status, err = session.SelectHex(opts.color)
	case opts.pick >= 0:
		status, err = session.SelectPalette(opts.pick)
	}
	if err != nil {
		return err
	}
	if status.Message != "" {
		lg.Info("%s", status.Message)
	}

	if opts.zones != "" {
		b := skin.Image.Bounds()
		if err := utils.SaveImage(skinbrief.ZoneMask(skin.Variant, b.Dx(), b.Dy()), opts.zones); err != nil {
			return fmt.Errorf("write zone map: %w", err)
		}
	}

	out, err := skinbrief.CompositeFrom(cmd.Context(), session.Current(), asset.FromLocation(a.cfg.Overlay), session.Options)
	if err != nil {
		return err
	}
	saved, err := skinbrief.SaveFile(opts.outDir, out)
	if err != nil {
		return err
	}

	lg.Info("Layers composited! wrote %s", filepath.Clean(saved))
	return nil
}
