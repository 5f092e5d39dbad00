package audiofiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tagclean/internal/services"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestResolveDirectoryRecursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "b.flac", "a.MP3", "cover.jpg", "disc2/c.flac")

	r := NewResolver([]string{".flac", "mp3"})
	files, err := r.Resolve([]string{root}, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.MP3"),
		filepath.Join(root, "b.flac"),
		filepath.Join(root, "disc2", "c.flac"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, files)
		}
	}
}

func TestResolveDirectoryNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.flac", "disc2/c.flac")

	files, err := NewResolver([]string{".flac"}).Resolve([]string{root}, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(root, "a.flac") {
		t.Fatalf("expected only top-level file, got %v", files)
	}
}

func TestResolveKeepsInputOrderAndDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "x/1.flac", "y/2.flac")
	single := filepath.Join(root, "y", "2.flac")

	files, err := NewResolver([]string{".flac"}).Resolve([]string{single, root}, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 2 || files[0] != single || files[1] != filepath.Join(root, "x", "1.flac") {
		t.Fatalf("unexpected order %v", files)
	}
}

func TestResolveMissingPathFails(t *testing.T) {
	_, err := NewResolver([]string{".flac"}).Resolve([]string{filepath.Join(t.TempDir(), "nope")}, true)
	if !errors.Is(err, services.ErrInputResolution) {
		t.Fatalf("expected input resolution error, got %v", err)
	}
}

func TestResolveNonAudioFileFails(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "notes.txt")
	_, err := NewResolver([]string{".flac"}).Resolve([]string{filepath.Join(root, "notes.txt")}, true)
	if !errors.Is(err, services.ErrInputResolution) {
		t.Fatalf("expected input resolution error, got %v", err)
	}
}

func TestResolveEmptyDirectory(t *testing.T) {
	files, err := NewResolver([]string{".flac"}).Resolve([]string{t.TempDir()}, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}
