// Package rbtree implements the augmented red-black tree that indexes a
// piece tree's pieces by both byte length and line-feed count, plus the
// bounded search cache and in-order iterator built on top of it.
//
// Nodes are not heap pointers but handles: small integer indices into an
// arena slice owned by the Tree. Handle 0 is permanently reserved as the
// sentinel NIL node, matching the convention used throughout this tree so
// every leaf link and every freshly deleted slot can point at a single
// shared, always-black sentinel instead of a nil *Node check at every
// traversal step.
package rbtree

import "github.com/dshills/pietree/internal/bufstore"

// Piece describes a run of text as a reference into one buffer of a
// buffer store, plus the metadata the tree needs to answer length and
// line queries without touching buffer content.
type Piece struct {
	// BufIndex is the buffer this piece's bytes live in: 0 for the
	// mutable append buffer, >=1 for an original buffer.
	BufIndex int

	// Start and End are buffer-local cursors bounding the piece's span:
	// [Start, End). End is exclusive.
	Start bufstore.Cursor
	End   bufstore.Cursor

	// Length is the piece's byte length, End-offset minus Start-offset
	// in its buffer. Cached so the tree never has to touch buffer
	// content to answer a length query.
	Length int

	// LineFeedCount is the number of line breaks contained in the
	// piece's span: End.Line - Start.Line, or one less when the piece
	// ends in a CR that pairs with an LF at the start of the next piece.
	LineFeedCount int
}

// IsEmpty reports whether the piece spans zero bytes. Empty pieces are
// never inserted into the tree; they exist only as a transient result of
// a split or delete operation before being discarded.
func (p Piece) IsEmpty() bool {
	return p.Length == 0
}
