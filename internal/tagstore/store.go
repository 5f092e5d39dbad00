package tagstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"tagclean/internal/logging"
	"tagclean/internal/media/ffprobe"
	"tagclean/internal/services"
	"tagclean/internal/tags"
)

const lockDirName = "tagclean-locks"

var indexPrefix = regexp.MustCompile(`^(\d+)`)

// streamTagFormats store their comments on the audio stream, not the container.
var streamTagFormats = map[string]struct{}{
	".ogg":  {},
	".oga":  {},
	".opus": {},
}

// muxerOptions are the output options a container needs before its muxer
// stores free-form keys. WAV has none; its RIFF INFO muxer keeps only known
// keys and the post-write check reports anything it drops.
var muxerOptions = map[string][]string{
	".m4a":  {"-movflags", "+use_metadata_tags"},
	".mp4":  {"-movflags", "+use_metadata_tags"},
	".aiff": {"-write_id3v2", "1"},
	".aif":  {"-write_id3v2", "1"},
}

// Store reads tags with ffprobe and writes them with ffmpeg stream copies.
type Store struct {
	ffprobe string
	ffmpeg  string
	lockDir string
	logger  *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLockDir places the per-file write locks in dir.
func WithLockDir(dir string) Option {
	return func(s *Store) {
		if strings.TrimSpace(dir) != "" {
			s.lockDir = dir
		}
	}
}

// New constructs a Store using the given binaries.
func New(ffprobeBinary, ffmpegBinary string, logger *slog.Logger, opts ...Option) *Store {
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	s := &Store{
		ffprobe: ffprobeBinary,
		ffmpeg:  ffmpegBinary,
		lockDir: filepath.Join(os.TempDir(), lockDirName),
		logger:  logging.NewComponentLogger(logger, "tagstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadTags returns one mapping per path, in path order. Each mapping carries
// the file path and, when the file name starts with a number, the playlist index.
func (s *Store) ReadTags(ctx context.Context, paths []string) (tags.Batch, error) {
	batch := make(tags.Batch, 0, len(paths))
	for _, path := range paths {
		result, err := ffprobe.Inspect(ctx, s.ffprobe, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, services.Wrap(services.ErrExternalTool, "read tags", path, "", err)
		}
		if result.AudioStreamCount() == 0 {
			s.logger.Warn("skipping file without audio stream", logging.String(logging.FieldFile, path))
			continue
		}
		mapping := tags.Mapping(result.Tags())
		mapping[tags.KeyFileName] = path
		if index, ok := PlaylistIndex(path); ok {
			mapping[tags.KeyPlaylistIndex] = strconv.Itoa(index)
		}
		batch = append(batch, mapping)
		s.logger.Debug("read tags", logging.String(logging.FieldFile, path), logging.Int("tag_count", len(mapping)))
	}
	return batch, nil
}

// WriteTags merges partial into the tags stored in the file at path. Keys not
// named in partial are preserved. Synthetic keys are never written. Empty
// values are refused because ffmpeg treats them as a deletion.
func (s *Store) WriteTags(ctx context.Context, path string, partial tags.Mapping) error {
	update := partial.FileTags()
	if len(update) == 0 {
		return nil
	}
	for _, key := range update.Keys() {
		if update[key] == "" {
			return services.Wrap(services.ErrTagWrite, "write tags", path, fmt.Sprintf("empty value for %s", key), nil)
		}
	}
	if err := checkWritable(path); err != nil {
		return services.Wrap(services.ErrTagWrite, "write tags", path, "", err)
	}

	lock, err := s.lockFor(path)
	if err != nil {
		return services.Wrap(services.ErrTagWrite, "write tags", path, "acquire lock", err)
	}
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrTagWrite, "write tags", path, "acquire lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrTagWrite, "write tags", path, "file is locked by another process", nil)
	}
	defer func() { _ = lock.Unlock() }()

	if err := s.rewrite(ctx, path, update); err != nil {
		return services.Wrap(services.ErrTagWrite, "write tags", path, "", err)
	}
	s.logger.Info("wrote tags", logging.String(logging.FieldFile, path), logging.String("keys", strings.Join(update.Keys(), ",")))
	return nil
}

// LockPath returns the lock file guarding writes to path. Lock files are
// never removed: deleting one while another process waits on it would let two
// writers hold locks on different inodes.
func (s *Store) LockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(s.lockDir, hex.EncodeToString(sum[:16])+".lock")
}

func (s *Store) lockFor(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(s.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	return flock.New(s.LockPath(path)), nil
}

func (s *Store) rewrite(ctx context.Context, path string, update tags.Mapping) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	before, err := ffprobe.Inspect(ctx, s.ffprobe, path)
	if err != nil {
		return fmt.Errorf("read current tags: %w", err)
	}
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, ".tagclean-"+base)

	cmd := exec.CommandContext(ctx, s.ffmpeg, ffmpegArgs(path, tmp, update)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	after, err := ffprobe.Inspect(ctx, s.ffprobe, tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("read rewritten tags: %w", err)
	}
	if err := verifyRewrite(before.Tags(), after.Tags(), update); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("restore permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// verifyRewrite checks that every updated key holds its new value and that
// rule keys present before the rewrite still hold their old value.
func verifyRewrite(before, after map[string]string, update tags.Mapping) error {
	var lost []string
	for _, key := range update.Keys() {
		if got, ok := after[key]; !ok || got != update[key] {
			lost = append(lost, key)
		}
	}
	for _, key := range tags.RuleKeys() {
		if _, updated := update[key]; updated {
			continue
		}
		if want, ok := before[key]; ok && after[key] != want {
			lost = append(lost, key)
		}
	}
	if len(lost) > 0 {
		return fmt.Errorf("container did not keep tags %s; original left unchanged", strings.Join(lost, ", "))
	}
	return nil
}

func ffmpegArgs(src, dst string, update tags.Mapping) []string {
	ext := strings.ToLower(filepath.Ext(src))
	flag := "-metadata"
	if _, ok := streamTagFormats[ext]; ok {
		flag = "-metadata:s:a:0"
	}
	args := []string{"-v", "error", "-y", "-i", src, "-map", "0", "-c", "copy", "-map_metadata", "0"}
	args = append(args, muxerOptions[ext]...)
	for _, key := range update.Keys() {
		args = append(args, flag, key+"="+update[key])
	}
	return append(args, dst)
}

// checkWritable fails when the file or its directory (needed for the atomic
// rename) cannot be written by this process.
func checkWritable(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Errorf("file not writable: %w", err)
	}
	if err := unix.Access(filepath.Dir(path), unix.W_OK); err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	return nil
}

// PlaylistIndex extracts the numeric prefix of a file name ("03 - Song.flac" -> 3).
func PlaylistIndex(path string) (int, bool) {
	match := indexPrefix.FindString(filepath.Base(path))
	if match == "" {
		return 0, false
	}
	index, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return index, true
}
