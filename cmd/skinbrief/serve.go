package main

import (
	"context"
	"time"

	"github.com/setanarut/skinbrief/asset"
	"github.com/setanarut/skinbrief/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the skin editing HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $SKINBRIEF_ADDR or :8080)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	// -- create the handler --
	handler, err := server.NewHandler(a.cfg, a.lg, asset.FromLocation(a.cfg.Overlay))
	if err != nil {
		return err
	}

	// -- fiber app --
	fiberApp := handler.App(a.cfg.AllowOrigins)

	g, ctx := errgroup.WithContext(ctx)

	// -- start the server --
	g.Go(func() error {
		a.lg.Info("listening on %s", a.cfg.Addr)
		return fiberApp.Listen(a.cfg.Addr)
	})

	// -- stop on signal or listener failure --
	g.Go(func() error {
		<-ctx.Done()
		a.lg.Info("shutting down")
		return fiberApp.ShutdownWithTimeout(shutdownTimeout)
	})

	return g.Wait()
}
