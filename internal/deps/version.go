package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// ProbeVersions fills in the version banner of every available status by
// running "<binary> -version". A binary that fails to report a version is
// marked unavailable.
func ProbeVersions(ctx context.Context, statuses []Status) []Status {
	out := make([]Status, len(statuses))
	for i, status := range statuses {
		out[i] = status
		if !status.Available {
			continue
		}
		version, err := Version(ctx, status.Resolved)
		if err != nil {
			out[i].Available = false
			out[i].Detail = err.Error()
			continue
		}
		out[i].Version = version
	}
	return out
}

// Version returns the first line printed by "<binary> -version".
func Version(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}
