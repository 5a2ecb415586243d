// Package diag renders a piece tree's internal structure — its red-black
// shape and augmented aggregates, not just its text content — as JSON, for
// use in test assertions and golden-file style structural comparisons.
//
// It is not part of the buffer's public API (spec.md §6 draws that
// boundary at content-level reads and writes); it exists purely as test
// tooling, the way the teacher's own JSON stack (pulled in by its AI
// client SDKs, but never itself wired to a call site in the teacher repo)
// sat unused. Here it gets a genuine home: composing a tree dump field by
// field with sjson.Set instead of marshaling a Go struct keeps the dump
// shape decoupled from *rbtree.Tree's internal layout, and gjson.Get lets
// a test assert against one field of a dump (e.g. "2.color") without
// unmarshaling the whole document back into Go types.
package diag
