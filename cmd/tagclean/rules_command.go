package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagclean/internal/tagclean"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rep := newReport(
				column{title: "#", numeric: true},
				column{title: "Rule"},
				column{title: "Kind"},
				column{title: "Enabled"},
				column{title: "Description"},
			)
			for i, rule := range tagclean.Rules() {
				kind := "informational"
				if rule.Fixable() {
					kind = "fix"
				}
				rep.add(i+1, rule.Name, kind, yesNo(!cfg.RuleDisabled(rule.Name)), rule.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rep)
			return nil
		},
	}
}
