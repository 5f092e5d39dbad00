// Package tagclean implements the tag anomaly rules and the repair workflow.
//
// The rule set is fixed and ordered: comma artist separators, ISRC format,
// Deezer track ID backfill, Deezer files without identifiers, and files
// without a SOURCE tag. Each rule is split into a pure Plan step, which
// collects candidates from the in-memory batch, and an Apply step, which
// prints the report, asks one yes/no question for the whole candidate set and
// writes the fixes through a TagWriter. Fixes are merged into the batch right
// after each write so later rules see exactly what is on disk.
package tagclean
