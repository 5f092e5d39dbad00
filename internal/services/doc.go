// Package services defines shared utilities consumed by the clean workflow and
// its external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and rule names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (unresolvable input, empty batch, tag write, external tool, config) so
//     the CLI can choose a message and exit code with errors.Is.
//
// Use these helpers when wiring new adapters so failure handling stays uniform
// across the tool.
package services
