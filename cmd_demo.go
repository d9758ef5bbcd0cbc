package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pullrefresh/internal/haptic"
	"pullrefresh/internal/log"
	"pullrefresh/internal/surface"
	"pullrefresh/internal/tui"
)

func newDemoCommand(flags *globalFlags) *cobra.Command {
	var noBell bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive pull-to-refresh demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The terminal belongs to the UI; logs go to the configured file only.
			cfg, closeLog, err := loadConfig(flags, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			opts := cfg.SurfaceOptions("demo")
			if !noBell {
				opts.Haptic = haptic.NewBell(os.Stderr)
			}
			s, err := surface.New(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return s.Run(gctx)
			})
			g.Go(func() error {
				// Quitting the UI ends the surface too.
				defer cancel()
				return tui.Run(gctx, s, cfg)
			})

			err = g.Wait()
			log.WithComponent("demo").Info("demo finished", "error", err)
			return err
		},
	}

	cmd.Flags().BoolVar(&noBell, "no-bell", false, "Disable the terminal bell played when a refresh triggers")
	return cmd
}
