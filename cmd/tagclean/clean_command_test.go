package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"tagclean/internal/services"
	"tagclean/internal/testsupport"
)

var separatorTags = map[string]string{"ARTIST": "Drake, Future", "SOURCE": "SPOTIFY"}

func recordFFmpegArgs(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg-args")
	t.Setenv("TAGCLEAN_TEST_ARGS", path)
	return path
}

func TestCleanEmptyDirectoryReportsNoFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := env.run(t, "", "clean", env.musicDir)
	if !errors.Is(err, services.ErrEmptyBatch) {
		t.Fatalf("expected empty batch error, got %v", err)
	}
	if services.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", services.ExitCode(err))
	}
	if errorMessage(err) != "No files found." {
		t.Fatalf("unexpected message %q", errorMessage(err))
	}
}

func TestCleanWithoutInputsReportsNoFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := env.run(t, "", "clean"); !errors.Is(err, services.ErrEmptyBatch) {
		t.Fatalf("expected empty batch error, got %v", err)
	}
}

func TestCleanMissingInputFails(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := env.run(t, "", "clean", "--audio", filepath.Join(env.musicDir, "nope.flac"))
	if !errors.Is(err, services.ErrInputResolution) {
		t.Fatalf("expected input resolution error, got %v", err)
	}
	if msg := errorMessage(err); !strings.HasSuffix(msg, "No tags were read or changed.") {
		t.Fatalf("expected untouched-library note, got %q", msg)
	}
}

func TestCleanUnknownSkipRuleFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addTrack(t, "01 - Jumpman.flac", separatorTags)
	_, err := env.run(t, "", "clean", "--skip", "no-such-rule", env.musicDir)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCleanAssumeYesWritesAndJournals(t *testing.T) {
	env := setupCLITestEnv(t)
	argsPath := recordFFmpegArgs(t)
	track := env.addTrack(t, "01 - Jumpman.flac", separatorTags)

	out, err := env.run(t, "", "clean", "--yes", "--audio", env.musicDir)
	if err != nil {
		t.Fatalf("clean: %v\n%s", err, out)
	}
	if !strings.Contains(out, `ARTIST: "Drake, Future" -> "Drake; Future"`) {
		t.Fatalf("expected separator report, got %q", out)
	}
	if !strings.Contains(out, "applied") {
		t.Fatalf("expected summary with applied outcome, got %q", out)
	}
	args := testsupport.ReadArgs(t, argsPath)
	if !slices.Contains(args, "ARTIST=Drake; Future") {
		t.Fatalf("expected ffmpeg to write fixed artist, got %v", args)
	}
	if _, err := os.Stat(track + ".tagclean.lock"); !os.IsNotExist(err) {
		t.Fatalf("expected no lock file beside the track, stat err %v", err)
	}
	locks, err := os.ReadDir(env.cfg.Paths.LockDir)
	if err != nil || len(locks) != 1 {
		t.Fatalf("expected one lock file in %s, got %v err %v", env.cfg.Paths.LockDir, locks, err)
	}

	entries, err := testsupport.MustOpenJournal(t, env.cfg).Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one journal entry, got %+v", entries)
	}
	if got := entries[0]; got.File != track || !got.HadValue || got.OldValue != "Drake, Future" || got.NewValue != "Drake; Future" {
		t.Fatalf("unexpected journal entry %+v", got)
	}

	out, err = env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "artist-separator") || !strings.Contains(out, "Drake; Future") {
		t.Fatalf("expected journal entry in history output, got %q", out)
	}
}

func TestCleanNonInteractiveDeclines(t *testing.T) {
	env := setupCLITestEnv(t)
	argsPath := recordFFmpegArgs(t)
	env.addTrack(t, "01 - Jumpman.flac", separatorTags)

	out, err := env.run(t, "y\n", "clean", env.musicDir)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "non-interactive") || !strings.Contains(out, "declined") {
		t.Fatalf("expected declined prompt, got %q", out)
	}
	if _, err := os.Stat(argsPath); !os.IsNotExist(err) {
		t.Fatal("expected ffmpeg not to run")
	}
}

func TestCleanDryRunNeverWrites(t *testing.T) {
	env := setupCLITestEnv(t)
	argsPath := recordFFmpegArgs(t)
	env.addTrack(t, "01 - Jumpman.flac", map[string]string{"ARTIST": "Drake, Future", "ISRC": "us-s1-00-00001"})

	out, err := env.run(t, "", "clean", "--dry-run", "--yes", env.musicDir)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if strings.Count(out, "Dry run:") != 2 {
		t.Fatalf("expected two dry-run notes, got %q", out)
	}
	if !strings.Contains(out, "no SOURCE tag") {
		t.Fatalf("expected missing-source report, got %q", out)
	}
	if strings.Contains(out, "[y/N]") {
		t.Fatalf("dry run must not prompt, got %q", out)
	}
	if _, err := os.Stat(argsPath); !os.IsNotExist(err) {
		t.Fatal("expected ffmpeg not to run")
	}
	if _, err := os.Stat(env.cfg.Paths.HistoryPath); !os.IsNotExist(err) {
		t.Fatal("expected no journal for a dry run")
	}
}

func TestCleanSkipRule(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addTrack(t, "01 - Jumpman.flac", separatorTags)

	out, err := env.run(t, "", "clean", "--yes", "--skip", "artist-separator", env.musicDir)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if strings.Contains(out, "ARTIST:") {
		t.Fatalf("expected skipped rule to stay silent, got %q", out)
	}
}

func TestCleanReadFailureIsExternalToolError(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.musicDir, "broken.flac")
	testsupport.WriteFile(t, path, 8)

	_, err := env.run(t, "", "clean", path)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No fixes recorded yet.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCleanWithHistoryDisabledSkipsJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	env.addTrack(t, "01 - Jumpman.flac", separatorTags)

	if _, err := env.run(t, "", "clean", "--yes", env.musicDir); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(env.cfg.Paths.HistoryPath); !os.IsNotExist(err) {
		t.Fatal("expected no journal when history is disabled")
	}
}
