// Package bufstore implements the buffer store and line-starts builder
// that back a piece tree: an ordered list of immutable byte strings plus
// the single mutable append buffer all inserted text is concatenated into.
//
// Index 0 of a Store is always the mutable append buffer; every other
// index is an original buffer supplied at construction time and never
// mutated afterward. Each buffer carries a sidecar "line starts" table
// recording the byte offset of every line start, so that converting a
// (line, column) cursor local to one buffer into a byte offset is a single
// slice lookup plus addition rather than a rescan.
//
// This package has no notion of pieces, trees, or edits — it only answers
// "what bytes live in buffer N" and "where do lines start in buffer N".
package bufstore
