package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recently archived seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive()
			if err != nil {
				return err
			}
			defer db.Close()

			total, err := db.CountSeeds()
			if err != nil {
				return err
			}
			seeds, err := db.ListSeeds(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d archived seeds\n", total)
			for _, s := range seeds {
				fmt.Fprintf(out, "%s  %s  seed=%d attempt=%d worlds=%d\n",
					s.CreatedAt.Format("2006-01-02 15:04:05"), s.Hash, s.Seed, s.Attempt, s.Worlds)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of seeds to list")
	return cmd
}
