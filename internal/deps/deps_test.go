package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Resolved != present {
		t.Fatalf("unexpected resolved path %q", results[0].Resolved)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestToolRequirements(t *testing.T) {
	reqs := ToolRequirements("ffprobe", "/opt/ffmpeg")
	if len(reqs) != 2 || reqs[0].Command != "ffprobe" || reqs[1].Command != "/opt/ffmpeg" {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
}

func TestProbeVersions(t *testing.T) {
	binDir := t.TempDir()
	good := filepath.Join(binDir, "ffprobe")
	bad := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(good, []byte("#!/bin/sh\necho 'ffprobe version 7.1 Copyright'\necho 'built with gcc'\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if err := os.WriteFile(bad, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	statuses := ProbeVersions(context.Background(), CheckBinaries(ToolRequirements(good, bad)))
	if !statuses[0].Available || statuses[0].Version != "ffprobe version 7.1 Copyright" {
		t.Fatalf("unexpected ffprobe status %#v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("expected failing binary to be unavailable, got %#v", statuses[1])
	}
}
