package tagclean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tagclean/internal/history"
	"tagclean/internal/logging"
	"tagclean/internal/services"
	"tagclean/internal/tags"
)

// Divider separates report blocks.
const Divider = "--------------------------------------------------------------"

// TagWriter persists a partial mapping to the file at path, merging with the
// tags already stored there.
type TagWriter interface {
	WriteTags(ctx context.Context, path string, partial tags.Mapping) error
}

// Journal records applied fixes.
type Journal interface {
	Record(ctx context.Context, entry history.Entry) error
}

// ConfirmFunc asks a yes/no question covering a whole candidate set.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// Options configures a Cleaner.
type Options struct {
	Rules   []Rule
	Writer  TagWriter
	Confirm ConfirmFunc
	Out     io.Writer
	Logger  *slog.Logger
	Journal Journal
	RunID   string
	DryRun  bool
	Now     func() time.Time
}

// Outcome describes what happened to one rule during a run.
type Outcome string

const (
	OutcomeClean    Outcome = "clean"
	OutcomeApplied  Outcome = "applied"
	OutcomeDeclined Outcome = "declined"
	OutcomeReported Outcome = "reported"
	OutcomeDryRun   Outcome = "dry-run"
	OutcomeFailed   Outcome = "failed"
)

// RuleResult summarizes one rule.
type RuleResult struct {
	Rule       string
	Candidates int
	Applied    int
	Outcome    Outcome
}

// Summary summarizes a run. Rules lists only the rules that were evaluated.
type Summary struct {
	RunID string
	Files int
	Rules []RuleResult
}

// Cleaner drives a batch through the rule set.
type Cleaner struct {
	rules   []Rule
	writer  TagWriter
	confirm ConfirmFunc
	out     io.Writer
	logger  *slog.Logger
	journal Journal
	runID   string
	dryRun  bool
	now     func() time.Time
}

// New constructs a Cleaner. A nil rule list means the full rule set.
func New(opts Options) (*Cleaner, error) {
	if opts.Confirm == nil {
		return nil, errors.New("tagclean: confirm function is required")
	}
	if opts.Writer == nil && !opts.DryRun {
		return nil, errors.New("tagclean: tag writer is required")
	}
	rules := opts.Rules
	if rules == nil {
		rules = Rules()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cleaner{
		rules:   rules,
		writer:  opts.Writer,
		confirm: opts.Confirm,
		out:     out,
		logger:  logging.NewComponentLogger(opts.Logger, "cleaner"),
		journal: opts.Journal,
		runID:   opts.RunID,
		dryRun:  opts.DryRun,
		now:     now,
	}, nil
}

// Run evaluates every rule against batch in order. Confirmed fixes are written
// and merged into batch before the next rule is planned. An empty batch fails
// with services.ErrEmptyBatch; a write failure stops the run with
// services.ErrTagWrite and leaves earlier fixes in place.
func (c *Cleaner) Run(ctx context.Context, batch tags.Batch) (Summary, error) {
	summary := Summary{RunID: c.runID, Files: len(batch)}
	if len(batch) == 0 {
		return summary, services.Wrap(services.ErrEmptyBatch, "clean", "", "no audio files to process", nil)
	}
	ctx = services.WithRunID(ctx, c.runID)
	logging.WithContext(ctx, c.logger).Info("clean started", logging.Int("files", len(batch)), logging.Int("rules", len(c.rules)), logging.Bool("dry_run", c.dryRun))

	for _, rule := range c.rules {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		ruleCtx := services.WithRule(ctx, rule.Name)
		result, err := c.Apply(ruleCtx, rule, Plan(rule, batch))
		summary.Rules = append(summary.Rules, result)
		if err != nil {
			return summary, err
		}
	}

	logging.WithContext(ctx, c.logger).Info("clean finished", logging.Int("fixed", summary.Applied()))
	return summary, nil
}

// Apply reports candidates, asks for confirmation and, for fixable rules,
// writes each fix and merges it into the candidate's mapping. No candidates
// means no report and no prompt.
func (c *Cleaner) Apply(ctx context.Context, rule Rule, candidates []Candidate) (RuleResult, error) {
	result := RuleResult{Rule: rule.Name, Candidates: len(candidates), Outcome: OutcomeClean}
	if len(candidates) == 0 {
		return result, nil
	}
	logger := logging.WithContext(ctx, c.logger)
	c.report(candidates)

	if !rule.Fixable() {
		result.Outcome = OutcomeReported
		if c.dryRun {
			fmt.Fprintln(c.out, rule.Prompt(len(candidates)))
			return result, nil
		}
		if _, err := c.confirm(ctx, rule.Prompt(len(candidates))); err != nil {
			return result, err
		}
		logger.Info("reported files", logging.Int("candidates", len(candidates)))
		return result, nil
	}

	if c.dryRun {
		result.Outcome = OutcomeDryRun
		fmt.Fprintf(c.out, "Dry run: %d audio files would be changed.\n", len(candidates))
		return result, nil
	}

	ok, err := c.confirm(ctx, rule.Prompt(len(candidates)))
	if err != nil {
		return result, err
	}
	if !ok {
		result.Outcome = OutcomeDeclined
		logger.Info("fix declined", logging.Int("candidates", len(candidates)))
		return result, nil
	}

	for _, candidate := range candidates {
		path := candidate.Tags.Path()
		if err := c.writer.WriteTags(ctx, path, candidate.Fix); err != nil {
			result.Outcome = OutcomeFailed
			logger.Error("tag write failed", logging.String(logging.FieldFile, path), logging.Error(err))
			if !errors.Is(err, services.ErrTagWrite) {
				err = services.Wrap(services.ErrTagWrite, rule.Name, path, "", err)
			}
			return result, err
		}
		previous := candidate.Tags.Clone()
		candidate.Tags.Merge(candidate.Fix)
		result.Applied++
		c.record(ctx, rule, path, previous, candidate.Fix)
	}
	result.Outcome = OutcomeApplied
	logger.Info("fix applied", logging.Int("files", result.Applied))
	return result, nil
}

func (c *Cleaner) report(candidates []Candidate) {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(Divider)
	b.WriteString("\n")
	for _, candidate := range candidates {
		b.WriteString(candidate.Description)
		b.WriteString("\n")
	}
	fmt.Fprint(c.out, b.String())
}

func (c *Cleaner) record(ctx context.Context, rule Rule, path string, previous, fix tags.Mapping) {
	if c.journal == nil {
		return
	}
	for _, key := range fix.Keys() {
		old, had := previous.Get(key)
		entry := history.Entry{
			RunID:     c.runID,
			Rule:      rule.Name,
			File:      path,
			Key:       key,
			OldValue:  old,
			HadValue:  had,
			NewValue:  fix[key],
			AppliedAt: c.now(),
		}
		if err := c.journal.Record(ctx, entry); err != nil {
			logging.WithContext(ctx, c.logger).Warn("journal write failed; fix was applied",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
			)
		}
	}
}

// Applied returns the number of files changed across all rules.
func (s Summary) Applied() int {
	total := 0
	for _, rule := range s.Rules {
		total += rule.Applied
	}
	return total
}
