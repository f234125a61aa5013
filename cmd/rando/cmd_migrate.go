package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/logicrando/internal/database"
	"github.com/lawnchairsociety/logicrando/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	var (
		sqlitePath string
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy archived seeds from a SQLite file into the configured archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := database.Open(sqlitePath)
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			defer src.Close()

			dst, err := openArchive()
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			defer dst.Close()

			if dryRun {
				logger.Info("dry run, nothing will be written")
			}
			stats, err := src.CopySeeds(dst, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d seeds, skipped %d\n", stats.Copied, stats.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "data/seeds.db", "Path to the source SQLite archive")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be copied without making changes")
	return cmd
}
