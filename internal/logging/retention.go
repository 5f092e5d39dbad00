package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	archiveTimeLayout = "20060102T150405"
	archivePattern    = "tagclean-*.log"
	maxLogBytes       = 5 << 20
)

// RotateLogFile renames path to a timestamped sibling once it reaches
// maxBytes. It returns the archive path, or "" when nothing was rotated.
func RotateLogFile(path string, maxBytes int64, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat log file: %w", err)
	}
	if maxBytes <= 0 || info.Size() < maxBytes {
		return "", nil
	}
	archive := filepath.Join(filepath.Dir(path), "tagclean-"+now.UTC().Format(archiveTimeLayout)+".log")
	if err := os.Rename(path, archive); err != nil {
		return "", fmt.Errorf("rotate log file: %w", err)
	}
	return archive, nil
}

// CleanupOldLogs removes rotated log archives in dir whose modification time
// is older than retentionDays. A retentionDays value of 0 disables pruning.
// The active log file never matches the archive pattern.
func CleanupOldLogs(dir string, retentionDays int, now time.Time) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return nil, nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var removed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(archivePattern, entry.Name()); !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, fullPath)
	}
	return removed, errors.Join(errs...)
}
