package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency tagclean relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Resolved    string
	Version     string
	Detail      string
}

// ToolRequirements lists the binaries used to read and write tags.
func ToolRequirements(ffprobe, ffmpeg string) []Requirement {
	return []Requirement{
		{Name: "FFprobe", Command: ffprobe, Description: "Reads container and stream tags"},
		{Name: "FFmpeg", Command: ffmpeg, Description: "Rewrites tags with stream copy"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Resolved = resolved
		results = append(results, status)
	}
	return results
}
