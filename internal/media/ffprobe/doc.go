// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no tagclean-specific dependencies.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties and stream-level tags
//   - Format: container-level metadata and tags
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Result.Tags flattens container and stream tags into the upper-case key
// convention used by the rest of tagclean.
package ffprobe
