// Package history keeps a SQLite journal of every tag change tagclean applies.
//
// Each confirmed fix records the run ID, rule, file, key, previous value (if
// any) and new value, so a user can see what a run changed and restore a value
// by hand. The journal is append-only; nothing in tagclean reads it back
// during a clean run.
package history
