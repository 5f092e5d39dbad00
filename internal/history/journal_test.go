package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	journal, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestRecordAndRecent(t *testing.T) {
	journal := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	entries := []Entry{
		{RunID: "r1", Rule: "artist-separator", File: "/m/a.flac", Key: "ARTIST", OldValue: "A, B", HadValue: true, NewValue: "A; B", AppliedAt: base},
		{RunID: "r1", Rule: "deezer-track-id", File: "/m/b.flac", Key: "DEEZER_TRACK_ID", NewValue: "123", AppliedAt: base.Add(time.Second)},
	}
	for _, entry := range entries {
		if err := journal.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := journal.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].File != "/m/b.flac" || got[1].File != "/m/a.flac" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if got[0].HadValue {
		t.Fatal("expected absent previous value to round-trip as absent")
	}
	if !got[1].HadValue || got[1].OldValue != "A, B" {
		t.Fatalf("unexpected previous value %+v", got[1])
	}
	if !got[1].AppliedAt.Equal(base) {
		t.Fatalf("unexpected applied_at %v", got[1].AppliedAt)
	}

	limited, err := journal.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1): %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	journal, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := journal.Record(context.Background(), Entry{RunID: "r", Rule: "isrc-format", File: "/m/x.mp3", Key: "ISRC", NewValue: "USS1000001"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	journal.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].NewValue != "USS1000001" {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	journal, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := journal.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	journal.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
