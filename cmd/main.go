package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/mloptapang/primero/internal/config"
	"github.com/mloptapang/primero/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "primero",
		Short:         "Reporting and indicator service for case management records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newIndicatorCmd())
	return rootCmd
}

// bootstrap loads the configuration and puts the root logger in the context.
func bootstrap(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}

	log := logger.New(cfg.LogLevel, cfg.AppMode)
	return log.WithContext(cmd.Context()), cfg, nil
}
