package testsupport

import (
	"testing"

	"tagclean/internal/config"
	"tagclean/internal/history"
)

// MustOpenJournal opens the fix journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *history.Journal {
	t.Helper()

	journal, err := history.Open(cfg.Paths.HistoryPath)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		journal.Close()
	})
	return journal
}
