package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tagclean/internal/audiofiles"
	"tagclean/internal/history"
	"tagclean/internal/logging"
	"tagclean/internal/prompt"
	"tagclean/internal/tagclean"
	"tagclean/internal/tagstore"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var audioPaths []string
	var skipRules []string
	var noRecursive bool
	var assumeYes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [PATH]...",
		Short: "Report tag anomalies and fix them after confirmation",
		Long: "Clean reads the tags of every audio file found in the given files and\n" +
			"directories, then runs each rule in order. Each rule lists the affected\n" +
			"files and asks once whether to apply its fix.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			disabled := append(append([]string(nil), cfg.Rules.Disabled...), skipRules...)
			rules, err := tagclean.SelectRules(disabled)
			if err != nil {
				return err
			}

			inputs := append(append([]string(nil), audioPaths...), args...)
			recursive := cfg.Scan.Recursive && !noRecursive
			paths, err := audiofiles.NewResolver(cfg.Scan.Extensions).Resolve(inputs, recursive)
			if err != nil {
				return err
			}

			store := tagstore.New(cfg.Tools.FFprobe, cfg.Tools.FFmpeg, logger, tagstore.WithLockDir(cfg.Paths.LockDir))
			batch, err := store.ReadTags(cmd.Context(), paths)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			var journal tagclean.Journal
			if cfg.History.Enabled && !dryRun {
				opened, openErr := history.Open(cfg.Paths.HistoryPath)
				if openErr != nil {
					logger.Warn("fix journal unavailable; continuing without it",
						logging.String("path", cfg.Paths.HistoryPath),
						logging.Error(openErr),
					)
				} else {
					defer opened.Close()
					journal = opened
				}
			}

			confirmer := prompt.New(cmd.InOrStdin(), out, prompt.WithAssumeYes(assumeYes || cfg.Prompt.AssumeYes))
			cleaner, err := tagclean.New(tagclean.Options{
				Rules:   rules,
				Writer:  store,
				Confirm: confirmer.Confirm,
				Out:     out,
				Logger:  logger,
				Journal: journal,
				RunID:   runID,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			summary, runErr := cleaner.Run(cmd.Context(), batch)
			if len(summary.Rules) > 0 && cmd.Context().Err() == nil {
				renderSummary(out, summary)
			}
			return runErr
		},
	}

	cmd.Flags().StringArrayVarP(&audioPaths, "audio", "a", nil, "Audio file or directory to clean (repeatable)")
	cmd.Flags().StringArrayVar(&skipRules, "skip", nil, "Rule to skip by name (repeatable)")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Do not descend into subdirectories")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report anomalies without prompting or writing")
	return cmd
}

func renderSummary(out io.Writer, summary tagclean.Summary) {
	rep := newReport(
		column{title: "Rule"},
		column{title: "Files", numeric: true},
		column{title: "Fixed", numeric: true},
		column{title: "Outcome"},
	)
	for _, result := range summary.Rules {
		rep.add(result.Rule, result.Candidates, result.Applied, string(result.Outcome))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, rep)
	fmt.Fprintf(out, "Run %s: %d files scanned, %d fixed\n", summary.RunID, summary.Files, summary.Applied())
}
