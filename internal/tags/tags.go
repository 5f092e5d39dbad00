package tags

import (
	"maps"
	"sort"
	"strings"
)

// Tag keys with fixed meaning. Keys are matched exactly; the tagging
// convention stores them upper-case.
const (
	KeyArtist        = "ARTIST"
	KeyISRC          = "ISRC"
	KeySource        = "SOURCE"
	KeySourceID      = "SOURCEID"
	KeyDeezerTrackID = "DEEZER_TRACK_ID"

	// KeyFileName is the synthetic key carrying the originating file path.
	KeyFileName = "TAGCLEAN_FILE_NAME"
	// KeyPlaylistIndex is the synthetic ordering key derived from a numeric
	// file name prefix.
	KeyPlaylistIndex = "TAGCLEAN_PLAYLIST_INDEX"
)

const syntheticPrefix = "TAGCLEAN_"

// RuleKeys returns the keys the rule engine reads or writes.
func RuleKeys() []string {
	return []string{KeyArtist, KeyISRC, KeySource, KeySourceID, KeyDeezerTrackID}
}

// Mapping holds the tags of one audio file.
type Mapping map[string]string

// Get returns the value stored under key and whether it was present.
func (m Mapping) Get(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// Has reports whether key is present, regardless of its value.
func (m Mapping) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Path returns the originating file path.
func (m Mapping) Path() string {
	return m[KeyFileName]
}

// Merge copies every pair from partial into m.
func (m Mapping) Merge(partial Mapping) {
	maps.Copy(m, partial)
}

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Keys returns the keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FileTags returns the pairs that belong on disk, dropping synthetic keys.
func (m Mapping) FileTags() Mapping {
	out := make(Mapping, len(m))
	for key, value := range m {
		if IsSynthetic(key) {
			continue
		}
		out[key] = value
	}
	return out
}

// IsSynthetic reports whether key is generated by tagclean rather than read
// from a file.
func IsSynthetic(key string) bool {
	return strings.HasPrefix(key, syntheticPrefix)
}

// Batch is the ordered set of mappings processed in one run.
type Batch []Mapping
