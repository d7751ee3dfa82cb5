// Package main provides the CLI entrypoint for classscan.
// It wires subcommands (scan, load), loads configuration, and initializes logging.
package main

import (
	"classscan/internal/config"
	"classscan/pkg/logger"
	"classscan/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exit codes
const (
	exitFailure = 1
	exitUsage   = 2
)

// newRootCommand builds the root command. Configuration is loaded and the
// logger set up before any subcommand runs; cfg is filled in at that point.
func newRootCommand() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "classscan",
		Short:         "Lists the compiled classes reachable under one or more namespaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			loaded, err := config.Load(configPath)
			if err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "could not load config file")
			}
			*cfg = *loaded

			if err := logger.Setup(cfg.Environment, cfg.Log.Level); err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "could not set up logger")
			}

			cmd.SetContext(logger.WithFields(cmd.Context(), zap.String("run_id", uuid.NewString())))

			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config File Path")

	rootCmd.AddCommand(
		scanCommand(cfg),
		loadCommand(cfg),
	)

	return rootCmd
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch kind := serrors.KindOf(err); {
	case errors.Is(kind, serrors.ErrBadRequest), errors.Is(kind, serrors.ErrInvalidPattern):
		return exitUsage
	default:
		return exitFailure
	}
}

func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	err := newRootCommand().ExecuteContext(ctx)
	_ = logger.Get(ctx).Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err)) //nolint: gocritic
	}
}
