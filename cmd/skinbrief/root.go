package main

import (
	"github.com/setanarut/skinbrief/internal/config"
	"github.com/setanarut/skinbrief/internal/logger"
	"github.com/spf13/cobra"
)

// app carries what every subcommand shares. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg *config.Config
	lg  *logger.ZapLogger

	overlay string
	filter  string
	debug   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "skinbrief",
		Short:        "Recolor Minecraft skins and composite a clothing overlay onto them",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.lg != nil {
				// stderr sync fails on some terminals, nothing to do about it
				_ = a.lg.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.overlay, "overlay", "", "overlay file path or http(s) URL (default: built-in black brief)")
	root.PersistentFlags().StringVar(&a.filter, "filter", "nearest", "overlay resampling filter: nearest, bilinear or catmullrom")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "development logging")

	root.AddCommand(
		newCompositeCmd(a),
		newPaletteCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the environment config and lets explicitly set flags win.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.LoadConfig()

	flags := cmd.Flags()
	if flags.Changed("overlay") {
		a.cfg.Overlay = a.overlay
	}
	if flags.Changed("filter") {
		a.cfg.Filter = a.filter
	}
	if flags.Changed("debug") {
		a.cfg.Debug = a.debug
	}

	a.lg = logger.NewLogger(a.cfg.Debug)
	return nil
}
