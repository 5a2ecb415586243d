package piecetree

import (
	"sort"
	"strings"

	"github.com/dshills/pietree/internal/bufstore"
	"github.com/dshills/pietree/internal/rbtree"
)

// Snapshot is a read-only, point-in-time view of a Tree's content. It is
// built by copying the tree's current piece list (not its content), so
// creating one is O(pieces) rather than O(document size), and it remains
// valid across later edits to the Tree it was taken from: the append
// buffer only ever grows, it never rewrites bytes a snapshot's pieces
// already reference.
type Snapshot struct {
	store  *bufstore.Store
	pieces []rbtree.Piece
	starts []int // starts[i] is the document offset of pieces[i]
	length int

	bom  string
	next int // index into pieces of the next chunk Read will return
}

// CreateSnapshot captures the tree's current content. bomPrefix, if
// non-empty, is prepended as the first chunk Read returns, ahead of any
// piece content — matching callers that need a byte-order mark written
// once at the head of a serialized document without storing it as part
// of the buffer itself.
func (t *Tree) CreateSnapshot(bomPrefix string) *Snapshot {
	pieces := make([]rbtree.Piece, 0, t.tree.Len())
	it := rbtree.NewIterator(t.tree)
	for {
		_, p, ok := it.Next()
		if !ok {
			break
		}
		pieces = append(pieces, p)
	}
	starts := make([]int, len(pieces)+1)
	for i, p := range pieces {
		starts[i+1] = starts[i] + p.Length
	}
	return &Snapshot{store: t.store, pieces: pieces, starts: starts, length: starts[len(starts)-1], bom: bomPrefix}
}

// Length returns the snapshot's total byte content length, excluding any
// BOM prefix.
func (s *Snapshot) Length() int { return s.length }

// Read returns the snapshot's content one piece at a time, in order. The
// first call returns the BOM prefix first if one was supplied to
// CreateSnapshot and is non-empty. Once every chunk has been returned,
// Read returns ok=false (the "null" terminator of spec.md §6's external
// interface) on every subsequent call.
func (s *Snapshot) Read() (chunk string, ok bool) {
	if s.bom != "" {
		chunk, s.bom = s.bom, ""
		return chunk, true
	}
	if s.next >= len(s.pieces) {
		return "", false
	}
	p := s.pieces[s.next]
	s.next++
	lo := s.store.OffsetInBuffer(p.BufIndex, p.Start)
	hi := s.store.OffsetInBuffer(p.BufIndex, p.End)
	return s.store.Bytes(p.BufIndex)[lo:hi], true
}

// ReadRange returns the snapshot's content between byte offsets start and
// end. It returns ok=false if the range falls outside [0, Length()]
// rather than clamping, since a caller reading past a snapshot's frozen
// extent almost always indicates a stale offset computed against the
// live tree instead. ReadRange is independent of Read's sequential
// cursor — callers may use either or both.
func (s *Snapshot) ReadRange(start, end int) (value string, ok bool) {
	if start < 0 || end > s.length || end < start {
		return "", false
	}
	if end == start {
		return "", true
	}

	idx := sort.Search(len(s.pieces), func(i int) bool { return s.starts[i+1] > start }) - 1
	if idx < 0 {
		idx = 0
	}

	var b strings.Builder
	b.Grow(end - start)
	remaining := end - start
	offsetInPiece := start - s.starts[idx]

	for remaining > 0 && idx < len(s.pieces) {
		p := s.pieces[idx]
		avail := p.Length - offsetInPiece
		take := avail
		if take > remaining {
			take = remaining
		}
		from := s.store.Advance(p.BufIndex, p.Start, offsetInPiece)
		to := s.store.Advance(p.BufIndex, p.Start, offsetInPiece+take)
		lo := s.store.OffsetInBuffer(p.BufIndex, from)
		hi := s.store.OffsetInBuffer(p.BufIndex, to)
		b.WriteString(s.store.Bytes(p.BufIndex)[lo:hi])

		remaining -= take
		offsetInPiece = 0
		idx++
	}
	return b.String(), true
}

// Value returns the snapshot's entire content, excluding any BOM prefix.
func (s *Snapshot) Value() string {
	v, _ := s.ReadRange(0, s.length)
	return v
}
