// Package main provides the pullrefresh command: a terminal demo of a
// pull-to-refresh indicator and an MCP server that drives the same state
// machine headlessly.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pullrefresh/internal/config"
	"pullrefresh/internal/log"
	"pullrefresh/internal/signal"
)

var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	err := signal.RunWithContext(func(ctx context.Context) error {
		return newRootCommand().ExecuteContext(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "pullrefresh",
		Short:         "Pull-to-refresh indicator demo and control server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the configuration file (default: "+config.DefaultConfigPath+" if present)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newDemoCommand(flags),
		newMCPCommand(flags),
		newTraceCommand(flags),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pullrefresh %s\n", version)
		},
	}
}

// loadConfig reads the configuration named by the flags and installs the
// logger. fallback receives log output when no log file is configured.
func loadConfig(flags *globalFlags, fallback io.Writer) (*config.Config, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	w, closeLog := fallback, func() {}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeLog = f, func() { f.Close() }
	}
	log.Setup(cfg.Log.Level, w)
	return cfg, closeLog, nil
}
