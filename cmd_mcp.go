package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pullrefresh/internal/control"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/log"
	"pullrefresh/internal/surface"
)

func newMCPCommand(flags *globalFlags) *cobra.Command {
	var defaultSurface string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve surfaces as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, so logs default to stderr.
			cfg, closeLog, err := loadConfig(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			logger := log.WithComponent("mcp")
			ctx := cmd.Context()

			surfaces := surface.NewRegistry(ctx, cfg.SurfaceOptions(""))
			surfaces.OnCreate(func(s *surface.Surface) {
				f := feed.New(cfg.Demo.RefreshDuration, cfg.Demo.FailureRate, cfg.Demo.Items, uint64(time.Now().UnixNano()))
				s.SetRefreshAction(f.Refresh)
				id := s.ID()
				s.SetEndRefreshHook(func(_ context.Context, err error) {
					if err != nil {
						logger.Warn("refresh failed", "surface", id, "error", err)
						return
					}
					logger.Info("refresh finished", "surface", id, "items", len(f.Items()))
				})
				logger.Debug("surface created", "surface", id)
			})

			srv := control.NewServer(version, control.DefaultToolRegistry, control.Deps{
				Surfaces:       surfaces,
				DefaultSurface: defaultSurface,
			})
			logger.Info("serving", "tools", control.DefaultToolRegistry.Names())
			if err := control.ServeStdio(ctx, srv, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultSurface, "surface", "main", "Surface used when a tool call names none")
	return cmd
}
