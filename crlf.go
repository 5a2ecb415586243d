package piecetree

import "github.com/dshills/pietree/internal/rbtree"

// lastByte and firstByte read a single byte out of a piece's own buffer.
// They are only ever called on non-empty pieces.
func (t *Tree) lastByte(p rbtree.Piece) byte {
	off := t.store.OffsetInBuffer(p.BufIndex, p.End) - 1
	return t.store.Bytes(p.BufIndex)[off]
}

func (t *Tree) firstByte(p rbtree.Piece) byte {
	off := t.store.OffsetInBuffer(p.BufIndex, p.Start)
	return t.store.Bytes(p.BufIndex)[off]
}

// fixCRLFAt re-derives h's cached line-feed count from scratch, dropping
// one if h ends in a bare CR that is immediately followed, in document
// order, by a piece starting with LF.
//
// Each original buffer's line_starts table already fuses a CRLF that
// occurs within a single buffer's own content into one break. The case
// this guards against is the CRLF pair straddling two pieces that don't
// share a buffer scan: a piece ending in a lone trailing CR (its own
// buffer never saw the LF that follows) immediately before a piece
// beginning with a bare LF (its own buffer never saw the CR that
// precedes it) would otherwise be counted as two line breaks instead of
// one.
//
// Because this recomputes from each piece's own Start/End cursors rather
// than toggling a persistent flag, it is safe to call again after any
// later edit changes h's neighbors — it never needs to be "undone".
func (t *Tree) fixCRLFAt(h rbtree.Handle) {
	// A split CRLF can only arise when the document isn't already
	// guaranteed normalized, or when the target EOL is CRLF itself (the
	// only style that can straddle a piece boundary as two bytes).
	if t.cfg.alreadyNormalized && t.cfg.eol != CRLF {
		return
	}
	if h == rbtree.NilHandle {
		return
	}
	next := t.tree.Next(h)
	if next == rbtree.NilHandle {
		return
	}
	p := t.tree.Piece(h)
	q := t.tree.Piece(next)
	if p.Length == 0 || q.Length == 0 {
		return
	}

	rawLF := p.End.Line - p.Start.Line
	want := rawLF
	// End.Column is 0 only when h's own buffer starts a line right after
	// the CR, i.e. counted it as a bare CR break.
	if t.lastByte(p) == '\r' && p.End.Column == 0 && t.firstByte(q) == '\n' {
		want = rawLF - 1
	}
	if want != p.LineFeedCount {
		p.LineFeedCount = want
		t.tree.UpdatePiece(h, p)
	}
}
