// Package piecetree implements an editable in-memory text buffer backed
// by an augmented red-black tree of pieces: small references into an
// immutable original text plus an append-only edit log, rather than a
// single mutable byte slice.
//
// A Tree never copies its original content and never reallocates on
// edit: inserted text is appended to a shared buffer and referenced by a
// new piece, and deletions simply shrink, split, or unlink existing
// pieces. This makes edits of any size O(log n) in the number of pieces
// instead of O(document size), at the cost of content being split across
// the original buffer(s) and the append buffer rather than living in one
// contiguous slice.
//
// A Tree is not safe for concurrent use; callers needing concurrent
// access must serialize their own calls.
package piecetree
