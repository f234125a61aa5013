package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/logicrando/internal/config"
	"github.com/lawnchairsociety/logicrando/internal/database"
	"github.com/lawnchairsociety/logicrando/internal/spoiler"
)

func newSpoilerCmd() *cobra.Command {
	var hash string
	cmd := &cobra.Command{
		Use:   "spoiler [file]",
		Short: "Print a spoiler log from a file or from the archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				sp  *spoiler.Spoiler
				err error
			)
			switch {
			case hash != "" && len(args) > 0:
				return fmt.Errorf("give either a file or --hash, not both")
			case hash != "":
				sp, err = archivedSpoiler(hash)
			case len(args) == 1:
				sp, err = spoiler.Read(args[0])
			default:
				return fmt.Errorf("a spoiler file or --hash is required")
			}
			if err != nil {
				return err
			}
			return sp.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "Look the seed up in the archive by hash")
	return cmd
}

func archivedSpoiler(hash string) (*spoiler.Spoiler, error) {
	db, err := openArchive()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rec, err := db.GetSeedByHash(hash)
	if err != nil {
		return nil, err
	}
	return spoiler.Unmarshal(rec.Spoiler)
}

// openArchive opens the archive database named by the run config, whether or
// not archiving is enabled for generation.
func openArchive() (*database.Database, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return database.OpenWithConfig(cfg.Database)
}
