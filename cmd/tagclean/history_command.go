package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tagclean/internal/history"
)

const absentValue = "(absent)"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently applied fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Paths.HistoryPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "No fixes recorded yet.")
				return nil
			}

			journal, err := history.Open(cfg.Paths.HistoryPath)
			if err != nil {
				return fmt.Errorf("open fix journal: %w", err)
			}
			defer journal.Close()

			entries, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No fixes recorded yet.")
				return nil
			}

			rep := newReport(
				column{title: "Applied"},
				column{title: "Run"},
				column{title: "Rule"},
				column{title: "File"},
				column{title: "Key"},
				column{title: "Old"},
				column{title: "New"},
			)
			for _, entry := range entries {
				old := absentValue
				if entry.HadValue {
					old = entry.OldValue
				}
				rep.add(
					entry.AppliedAt.Local().Format(time.DateTime),
					shortRunID(entry.RunID),
					entry.Rule,
					entry.File,
					entry.Key,
					old,
					entry.NewValue,
				)
			}
			fmt.Fprintln(out, rep)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
