// Package audiofiles discovers the audio files a clean run should process.
//
// Resolver turns command-line arguments into concrete file paths: audio files
// are accepted directly, directories are walked with godirwalk in lexical
// order. Unresolvable arguments fail with services.ErrInputResolution before
// any tags are read.
package audiofiles
