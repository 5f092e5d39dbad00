// Package tagstore reads and writes audio file tags through ffprobe and ffmpeg.
//
// Reads inspect each file once and flatten container and stream tags into a
// tags.Mapping. Writes are merge-style: ffmpeg copies every stream and all
// existing metadata into a temporary sibling file with the requested keys
// overridden. MP4-family and AIFF outputs get muxer flags so free-form keys
// are kept. Before the temp file replaces the original by rename it is read
// back, and the write fails with services.ErrTagWrite if an updated key or a
// pre-existing rule key did not survive; WAV files rely on this check because
// RIFF INFO only holds a fixed key set.
//
// A per-file advisory lock (gofrs/flock) keeps concurrent tagclean processes
// from rewriting the same file at once. Lock files live in one lock directory,
// named by a hash of the absolute path, and are never removed.
package tagstore
