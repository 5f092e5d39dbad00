package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProbeFixtureSuffix names the raw JSON sidecar the ffprobe stub prints.
const ProbeFixtureSuffix = ".probe.json"

// TagFixtureSuffix names the KEY=VALUE sidecar the stubs use as a file's
// container tags. The ffprobe stub renders it as JSON and the ffmpeg stub
// carries it to the output with the -metadata pairs applied.
const TagFixtureSuffix = ".tags"

// FFprobeStub prints the tag sidecar of its last argument as ffprobe JSON,
// falling back to the raw JSON sidecar.
const FFprobeStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version stub"
  exit 0
fi
for last; do :; done
if [ -f "$last.tags" ]; then
  printf '{"streams":[{"index":0,"codec_name":"flac","codec_type":"audio"}],"format":{"tags":{'
  sep=""
  while IFS= read -r line || [ -n "$line" ]; do
    [ -z "$line" ] && continue
    key=${line%%=*}
    val=$(printf '%s' "${line#*=}" | sed 's/\\/\\\\/g; s/"/\\"/g')
    printf '%s"%s":"%s"' "$sep" "$key" "$val"
    sep=","
  done < "$last.tags"
  printf '}}}\n'
  exit 0
fi
if [ ! -f "$last.probe.json" ]; then
  echo "$last: Invalid data found when processing input" >&2
  exit 1
fi
cat "$last.probe.json"
`

// FFmpegStub records its arguments to $TAGCLEAN_TEST_ARGS (when set), copies
// the -i input to the final argument and writes the output's tag sidecar.
// Like ffmpeg, an empty -metadata value removes the key.
const FFmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version stub"
  exit 0
fi
if [ -n "$TAGCLEAN_TEST_ARGS" ]; then
  printf '%s\n' "$@" > "$TAGCLEAN_TEST_ARGS"
fi
in=""
prev=""
meta=""
for arg; do
  case "$prev" in
    -i) in="$arg" ;;
    -metadata|-metadata:*) meta="$meta$arg
" ;;
  esac
  prev="$arg"
  out="$arg"
done
cp "$in" "$out" || exit 1
if [ -f "$in.tags" ]; then cp "$in.tags" "$out.tags"; else : > "$out.tags"; fi
printf '%s' "$meta" | while IFS= read -r pair; do
  [ -z "$pair" ] && continue
  key=${pair%%=*}
  grep -v "^$key=" "$out.tags" > "$out.tags.next"
  if [ -n "${pair#*=}" ]; then printf '%s\n' "$pair" >> "$out.tags.next"; fi
  mv "$out.tags.next" "$out.tags"
done
`

// TagDroppingFFmpegStub copies the input but writes no tags, like a muxer
// that cannot store free-form keys.
const TagDroppingFFmpegStub = `#!/bin/sh
for arg; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"
  out="$arg"
done
cp "$in" "$out" || exit 1
: > "$out.tags"
`

// FailingStub exits non-zero with a diagnostic.
const FailingStub = "#!/bin/sh\necho 'stub failure' >&2\nexit 1\n"

// WriteStub writes an executable script named name into dir and returns its path.
func WriteStub(t testing.TB, dir, name, script string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// ReadArgs returns the argument lines recorded by FFmpegStub.
func ReadArgs(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
