package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"tagclean/internal/deps"
	"tagclean/internal/prompt"
)

// checkLevel labels one doctor line and picks its color on a terminal.
type checkLevel struct {
	label string
	color text.Color
}

var (
	checkOK      = checkLevel{label: "OK", color: text.FgGreen}
	checkInfo    = checkLevel{label: "INFO", color: text.FgBlue}
	checkWarn    = checkLevel{label: "WARN", color: text.FgYellow}
	checkMissing = checkLevel{label: "ERROR", color: text.FgRed}
)

func formatCheck(name string, level checkLevel, detail string, colorize bool) string {
	line := fmt.Sprintf("  %-12s [%s]", name+":", level.label)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		return level.color.Sprint(line)
	}
	return line
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tag tools are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := prompt.IsTerminal(out)

			statuses := deps.ProbeVersions(cmd.Context(), deps.CheckBinaries(
				deps.ToolRequirements(cfg.Tools.FFprobe, cfg.Tools.FFmpeg),
			))

			missing := 0
			for _, status := range statuses {
				level, detail := checkOK, status.Version
				if !status.Available {
					level, detail = checkWarn, status.Detail
					if !status.Optional {
						level = checkMissing
						missing++
					}
				}
				fmt.Fprintln(out, formatCheck(status.Name, level, detail, colorize))
			}

			journal, detail := checkOK, cfg.Paths.HistoryPath
			if !cfg.History.Enabled {
				journal, detail = checkInfo, "disabled"
			}
			fmt.Fprintln(out, formatCheck("Journal", journal, detail, colorize))
			fmt.Fprintln(out, formatCheck("Locks", checkInfo, cfg.Paths.LockDir, colorize))

			if missing > 0 {
				return errors.New("required tools are missing; install ffmpeg or set [tools] in the config")
			}
			return nil
		},
	}
}
