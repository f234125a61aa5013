package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/logicrando/internal/config"
	"github.com/lawnchairsociety/logicrando/internal/logger"
	"github.com/lawnchairsociety/logicrando/internal/session"
)

type generateOptions struct {
	seed       int64
	randomSeed bool
	attempts   int
	workers    int
	spoiler    string
	compress   bool
	archive    bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a beatable seed from the run config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)

			s, err := session.Prepare(cfg)
			if err != nil {
				return err
			}
			out, err := s.Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.WriteOutputs(out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seed %d attempt %d hash %s\n", out.Result.Seed, out.Result.Attempt, out.Spoiler.Hash)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.seed, "seed", 0, "Master seed (overrides the config)")
	f.BoolVar(&opts.randomSeed, "random-seed", false, "Pick the master seed from the current time")
	f.IntVar(&opts.attempts, "max-attempts", 0, "Attempt budget (overrides the config)")
	f.IntVar(&opts.workers, "workers", 0, "Attempts run concurrently (overrides the config)")
	f.StringVar(&opts.spoiler, "spoiler", "", "Spoiler log path (overrides the config)")
	f.BoolVar(&opts.compress, "compress", false, "Write the spoiler log zstd-compressed")
	f.BoolVar(&opts.archive, "archive", false, "Record the seed in the archive database")
	cmd.MarkFlagsMutuallyExclusive("seed", "random-seed")
	return cmd
}

// apply overlays the flags the user actually set on cfg.
func (o *generateOptions) apply(cmd *cobra.Command, cfg *config.RandoConfig) {
	f := cmd.Flags()
	switch {
	case o.randomSeed:
		cfg.Seed = time.Now().UnixNano()
		logger.Info("seed selected", "seed", cfg.Seed, "random", true)
	case f.Changed("seed"):
		cfg.Seed = o.seed
	}
	if f.Changed("max-attempts") {
		cfg.MaxAttempts = o.attempts
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("spoiler") {
		cfg.Output.Spoiler = o.spoiler
	}
	if f.Changed("compress") {
		cfg.Output.Compress = o.compress
	}
	if f.Changed("archive") {
		cfg.Database.Enabled = o.archive
	}
}
