// Package tags defines the in-memory tag mapping shared by the tag store, the
// rule engine and the CLI.
//
// A Mapping is deliberately an open string map: the set of tags varies by
// container format and tagging tool. Only the keys the rule engine reasons
// about are named as constants here, together with the synthetic keys that
// tagclean adds on read (file path and ordering index). Synthetic keys are
// never written back to files.
package tags
