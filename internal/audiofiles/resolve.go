package audiofiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"

	"tagclean/internal/services"
)

// Resolver expands user-supplied file and directory arguments into audio file paths.
type Resolver struct {
	extensions map[string]struct{}
}

// NewResolver returns a resolver accepting the given extensions (with leading dot).
func NewResolver(extensions []string) *Resolver {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return &Resolver{extensions: set}
}

// IsAudioFile reports whether path carries one of the accepted extensions.
func (r *Resolver) IsAudioFile(path string) bool {
	_, ok := r.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Resolve returns the audio files named by inputs, in input order. Files are
// taken as-is; directories are scanned in lexical order, descending into
// subdirectories only when recursive is set. An input that is neither an
// audio file nor a directory fails the whole call.
func (r *Resolver) Resolve(inputs []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, services.Wrap(services.ErrInputResolution, "resolve", input, "invalid path", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, services.Wrap(services.ErrInputResolution, "resolve", "", fmt.Sprintf("cant find path or file: %q", input), nil)
			}
			return nil, services.Wrap(services.ErrInputResolution, "resolve", input, "stat", err)
		}

		switch {
		case info.Mode().IsRegular() && r.IsAudioFile(abs):
			add(abs)
		case info.IsDir():
			files, err := r.scan(abs, recursive)
			if err != nil {
				return nil, services.Wrap(services.ErrInputResolution, "resolve", input, "scan directory", err)
			}
			for _, file := range files {
				add(file)
			}
		default:
			return nil, services.Wrap(services.ErrInputResolution, "resolve", "", fmt.Sprintf("not an audio file or directory: %q", input), nil)
		}
	}
	return out, nil
}

func (r *Resolver) scan(root string, recursive bool) ([]string, error) {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == root {
				return nil
			}
			isDir, err := de.IsDirOrSymlinkToDir()
			if err != nil {
				return err
			}
			if isDir {
				if !recursive {
					return godirwalk.SkipThis
				}
				return nil
			}
			if r.IsAudioFile(path) {
				files = append(files, path)
			}
			return nil
		},
		FollowSymbolicLinks: recursive,
		Unsorted:            false,
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
