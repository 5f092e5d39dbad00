package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tagclean/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryPath = filepath.Join(base, "state", "history.db")
	cfgVal.Paths.LockDir = filepath.Join(base, "state", "locks")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistoryDisabled turns off the fix journal.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithDisabledRules disables the named rules.
func WithDisabledRules(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rules.Disabled = append(b.cfg.Rules.Disabled, names...)
	}
}

// WithStubbedTools writes the ffprobe and ffmpeg stubs into a private bin
// directory and points the config at them.
func WithStubbedTools() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Tools.FFprobe = WriteStub(b.t, binDir, "ffprobe", FFprobeStub)
		b.cfg.Tools.FFmpeg = WriteStub(b.t, binDir, "ffmpeg", FFmpegStub)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "path-bin")
		script := "#!/bin/sh\nexit 0\n"
		for _, name := range names {
			WriteStub(b.t, binDir, name, script)
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
