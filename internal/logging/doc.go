// Package logging assembles structured slog loggers used across tagclean.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so the clean workflow can tag log
// lines with run IDs and rule names. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Report output and prompts are not logs: they go to the command's stdout.
// Loggers built by NewFromConfig write to the log file and only reach stderr
// in verbose mode. The log file is rotated once it grows past a fixed size and
// rotated archives are pruned after the configured retention period.
package logging
