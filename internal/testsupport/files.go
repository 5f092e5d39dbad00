package testsupport

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteProbeFixture stores the JSON the ffprobe stub prints for path.
func WriteProbeFixture(t testing.TB, path, json string) {
	t.Helper()
	if err := os.WriteFile(path+ProbeFixtureSuffix, []byte(json), 0o644); err != nil {
		t.Fatalf("write probe fixture for %s: %v", path, err)
	}
}

// WriteTagFixture stores the container tags the stubs report for path.
func WriteTagFixture(t testing.TB, path string, values map[string]string) {
	t.Helper()
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(values)) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(values[key])
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path+TagFixtureSuffix, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write tag fixture for %s: %v", path, err)
	}
}

// ReadTagFixture returns the tags the ffmpeg stub wrote for path.
func ReadTagFixture(t testing.TB, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path + TagFixtureSuffix)
	if err != nil {
		t.Fatalf("read tag fixture for %s: %v", path, err)
	}
	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if key, value, ok := strings.Cut(line, "="); ok {
			values[key] = value
		}
	}
	return values
}
