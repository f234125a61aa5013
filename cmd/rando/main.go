package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/logicrando/internal/logger"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rando",
		Short:         "Logic-aware item and entrance randomizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logConfig, err := logger.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := logger.InitializeWithConsole(logConfig, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if logLevel != "" {
				logger.SetLevel(logLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "rando.yaml", "Path to run config YAML file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(newGenerateCmd(), newSpoilerCmd(), newHistoryCmd(), newMigrateCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
