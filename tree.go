package piecetree

import (
	"strings"

	"github.com/dshills/pietree/internal/bufstore"
	"github.com/dshills/pietree/internal/rbtree"
)

// Tree is an editable text buffer backed by an augmented red-black tree
// of pieces. The zero value is not usable; construct one with New,
// NewFromString, or NewFromStrings.
type Tree struct {
	store *bufstore.Store
	tree  *rbtree.Tree
	cache *rbtree.SearchCache
	cfg   config
}

// New returns an empty tree.
func New(opts ...Option) *Tree {
	return NewFromStrings(nil, opts...)
}

// NewFromString returns a tree seeded with original as its sole original
// buffer.
func NewFromString(original string, opts ...Option) *Tree {
	return NewFromStrings([]string{original}, opts...)
}

// NewFromStrings returns a tree seeded with one original buffer per
// element of originals, in order. The mutable append buffer starts
// empty.
func NewFromStrings(originals []string, opts ...Option) *Tree {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	t := &Tree{
		store: bufstore.New(originals),
		tree:  rbtree.New(),
		cache: rbtree.NewSearchCache(cfg.searchCacheLimit),
		cfg:   cfg,
	}

	last := rbtree.NilHandle
	var chain []rbtree.Handle
	for i, o := range originals {
		if len(o) == 0 {
			continue
		}
		entry := t.store.Originals[i]
		lastLine := len(entry.LineStarts) - 1
		p := rbtree.Piece{
			BufIndex:      i + 1,
			Start:         bufstore.Cursor{Line: 0, Column: 0},
			End:           bufstore.Cursor{Line: lastLine, Column: len(entry.Bytes) - entry.LineStarts[lastLine]},
			Length:        len(entry.Bytes),
			LineFeedCount: lastLine,
		}
		last = t.tree.InsertRight(last, p)
		chain = append(chain, last)
	}
	// Each original buffer's own line-starts table only fuses a CRLF that
	// occurs within its own content; a pair straddling two buffers still
	// needs fixing up once the chain is fully linked.
	for _, h := range chain {
		t.fixCRLFAt(h)
	}
	return t
}

// nodeAt resolves offset to its containing piece, consulting the search
// cache before falling back to a root-to-leaf descent. A cache hit is
// always safe to trust without re-validating against the live tree:
// Insert and Delete purge every entry at or after their offset (see
// cache.InvalidateFrom) both before they mutate the tree and once they
// are done, so a surviving entry's handle still names the same piece at
// the same start, just possibly with a piece length that has since grown
// or shrunk in place.
func (t *Tree) nodeAt(offset int) (rbtree.Handle, int) {
	if e, ok := t.cache.Get(offset); ok {
		if rem := offset - e.NodeStartOffset; rem <= t.tree.Piece(e.Node).Length {
			return e.Node, rem
		}
	}
	h, rem := t.tree.NodeAtOffset(offset)
	if h != rbtree.NilHandle {
		t.cache.Put(rbtree.CacheEntry{
			Node:              h,
			NodeStartOffset:   offset - rem,
			NodeStartLineFeed: t.tree.LineFeedOffsetOf(h),
		})
	}
	return h, rem
}

// nodeAtLineFeed is nodeAt's line-indexed analogue.
func (t *Tree) nodeAtLineFeed(lineFeedIndex int) (rbtree.Handle, int) {
	if e, ok := t.cache.GetByLineFeed(lineFeedIndex); ok {
		if rem := lineFeedIndex - e.NodeStartLineFeed; rem > 0 && rem <= t.tree.Piece(e.Node).LineFeedCount {
			return e.Node, rem
		}
	}
	h, rem := t.tree.NodeAtLineFeed(lineFeedIndex)
	if h != rbtree.NilHandle {
		t.cache.Put(rbtree.CacheEntry{
			Node:              h,
			NodeStartOffset:   t.tree.OffsetOf(h),
			NodeStartLineFeed: lineFeedIndex - rem,
		})
	}
	return h, rem
}

// GetLength returns the document's total byte length.
func (t *Tree) GetLength() int { return t.tree.TotalLength() }

// GetLineCount returns the number of lines in the document. An empty
// document has one line.
func (t *Tree) GetLineCount() int { return t.tree.TotalLineFeedCount() + 1 }

// GetEOL returns the tree's configured EOL style.
func (t *Tree) GetEOL() EOL { return t.cfg.eol }

func clampOffset(offset, total int) int {
	if offset < 0 {
		return 0
	}
	if offset > total {
		return total
	}
	return offset
}

// Insert inserts text at byte offset, clamping offset into [0, length].
// Empty insertions are no-ops.
func (t *Tree) Insert(offset int, text string) {
	if len(text) == 0 {
		return
	}
	total := t.tree.TotalLength()
	offset = clampOffset(offset, total)
	t.cache.InvalidateFrom(offset)
	defer t.cache.InvalidateFrom(offset)

	if offset == total {
		if last := t.tree.Rightmost(t.tree.Root()); last != rbtree.NilHandle {
			p := t.tree.Piece(last)
			if p.BufIndex == 0 && p.End == t.store.LastCursor() {
				_, start, end := t.store.Append(text)
				if start == p.End {
					// No CR/LF straddle guard was inserted: the new text
					// sits immediately after the existing tail piece's
					// bytes in the append buffer, so it can extend the
					// same piece in place instead of allocating a new one.
					t.tree.UpdatePiece(last, rbtree.Piece{
						BufIndex:      0,
						Start:         p.Start,
						End:           end,
						Length:        p.Length + len(text),
						LineFeedCount: end.Line - p.Start.Line,
					})
					t.fixCRLFAt(t.tree.Prev(last))
					return
				}
				// Append inserted a guard byte between the tail piece and
				// this text (spec.md §4.7): the guard is never part of a
				// piece's span, so the two can't be merged. Fall back to a
				// fresh piece starting after the guard, same as the
				// general path below.
				newPiece := rbtree.Piece{
					BufIndex:      0,
					Start:         start,
					End:           end,
					Length:        len(text),
					LineFeedCount: end.Line - start.Line,
				}
				z := t.tree.InsertRight(last, newPiece)
				t.fixCRLFAt(last)
				t.fixCRLFAt(z)
				return
			}
		}
	}

	_, start, end := t.store.Append(text)
	newPiece := rbtree.Piece{
		BufIndex:      0,
		Start:         start,
		End:           end,
		Length:        len(text),
		LineFeedCount: end.Line - start.Line,
	}

	if t.tree.Root() == rbtree.NilHandle {
		h := t.tree.InsertRight(rbtree.NilHandle, newPiece)
		t.fixCRLFAt(h)
		return
	}

	h, remain := t.nodeAt(offset)
	p := t.tree.Piece(h)

	switch {
	case remain == 0:
		z := t.tree.InsertLeft(h, newPiece)
		t.fixCRLFAt(t.tree.Prev(z))
		t.fixCRLFAt(z)
	case remain == p.Length:
		z := t.tree.InsertRight(h, newPiece)
		t.fixCRLFAt(h)
		t.fixCRLFAt(z)
	default:
		splitCursor := t.store.Advance(p.BufIndex, p.Start, remain)
		left := rbtree.Piece{
			BufIndex: p.BufIndex, Start: p.Start, End: splitCursor,
			Length: remain, LineFeedCount: splitCursor.Line - p.Start.Line,
		}
		right := rbtree.Piece{
			BufIndex: p.BufIndex, Start: splitCursor, End: p.End,
			Length: p.Length - remain, LineFeedCount: p.End.Line - splitCursor.Line,
		}
		t.tree.UpdatePiece(h, left)
		t.tree.InsertRight(h, right)
		z := t.tree.InsertRight(h, newPiece)
		t.fixCRLFAt(h)
		t.fixCRLFAt(z)
	}
}

// Delete removes the length bytes starting at offset, clamping the range
// to the document's bounds. A zero or negative length is a no-op.
func (t *Tree) Delete(offset, length int) {
	total := t.tree.TotalLength()
	offset = clampOffset(offset, total)
	if length <= 0 {
		return
	}
	end := clampOffset(offset+length, total)
	if end <= offset {
		return
	}
	t.cache.InvalidateFrom(offset)
	defer t.cache.InvalidateFrom(offset)

	hStart, rStart := t.nodeAt(offset)
	hEnd, rEnd := t.nodeAt(end)
	if hStart == rbtree.NilHandle {
		return
	}

	if hStart == hEnd {
		p := t.tree.Piece(hStart)
		switch {
		case rStart == 0 && rEnd == p.Length:
			t.tree.Delete(hStart)
		case rStart == 0:
			newStart := t.store.Advance(p.BufIndex, p.Start, rEnd)
			t.tree.UpdatePiece(hStart, rbtree.Piece{
				BufIndex: p.BufIndex, Start: newStart, End: p.End,
				Length: p.Length - rEnd, LineFeedCount: p.End.Line - newStart.Line,
			})
		case rEnd == p.Length:
			newEnd := t.store.Advance(p.BufIndex, p.Start, rStart)
			t.tree.UpdatePiece(hStart, rbtree.Piece{
				BufIndex: p.BufIndex, Start: p.Start, End: newEnd,
				Length: rStart, LineFeedCount: newEnd.Line - p.Start.Line,
			})
		default:
			leftEnd := t.store.Advance(p.BufIndex, p.Start, rStart)
			rightStart := t.store.Advance(p.BufIndex, p.Start, rEnd)
			left := rbtree.Piece{
				BufIndex: p.BufIndex, Start: p.Start, End: leftEnd,
				Length: rStart, LineFeedCount: leftEnd.Line - p.Start.Line,
			}
			right := rbtree.Piece{
				BufIndex: p.BufIndex, Start: rightStart, End: p.End,
				Length: p.Length - rEnd, LineFeedCount: p.End.Line - rightStart.Line,
			}
			t.tree.UpdatePiece(hStart, left)
			t.tree.InsertRight(hStart, right)
		}
	} else {
		// collect the fully-interior handles before mutating anything,
		// since Delete invalidates in-order traversal of removed nodes.
		var interior []rbtree.Handle
		for h := t.tree.Next(hStart); h != hEnd && h != rbtree.NilHandle; h = t.tree.Next(h) {
			interior = append(interior, h)
		}

		pStart := t.tree.Piece(hStart)
		pEnd := t.tree.Piece(hEnd)

		removeStart := rStart == 0
		removeEnd := rEnd == pEnd.Length

		if !removeStart {
			newEnd := t.store.Advance(pStart.BufIndex, pStart.Start, rStart)
			t.tree.UpdatePiece(hStart, rbtree.Piece{
				BufIndex: pStart.BufIndex, Start: pStart.Start, End: newEnd,
				Length: rStart, LineFeedCount: newEnd.Line - pStart.Start.Line,
			})
		}
		if !removeEnd {
			newStart := t.store.Advance(pEnd.BufIndex, pEnd.Start, rEnd)
			t.tree.UpdatePiece(hEnd, rbtree.Piece{
				BufIndex: pEnd.BufIndex, Start: newStart, End: pEnd.End,
				Length: pEnd.Length - rEnd, LineFeedCount: pEnd.End.Line - newStart.Line,
			})
		}

		for _, h := range interior {
			t.tree.Delete(h)
		}
		if removeStart {
			t.tree.Delete(hStart)
		}
		if removeEnd {
			t.tree.Delete(hEnd)
		}
	}

	if h, _ := t.tree.NodeAtOffset(offset); h != rbtree.NilHandle {
		t.fixCRLFAt(t.tree.Prev(h))
		t.fixCRLFAt(h)
	} else if h := t.tree.Rightmost(t.tree.Root()); h != rbtree.NilHandle {
		t.fixCRLFAt(h)
	}
}

// GetValueInRange returns the document's content between byte offsets
// start and end, clamped to the document's bounds.
func (t *Tree) GetValueInRange(start, end int) string {
	total := t.tree.TotalLength()
	start = clampOffset(start, total)
	end = clampOffset(end, total)
	if end <= start {
		return ""
	}

	var b strings.Builder
	b.Grow(end - start)

	h, rem := t.nodeAt(start)
	remaining := end - start
	for h != rbtree.NilHandle && remaining > 0 {
		p := t.tree.Piece(h)
		avail := p.Length - rem
		take := avail
		if take > remaining {
			take = remaining
		}
		from := t.store.Advance(p.BufIndex, p.Start, rem)
		to := t.store.Advance(p.BufIndex, p.Start, rem+take)
		lo := t.store.OffsetInBuffer(p.BufIndex, from)
		hi := t.store.OffsetInBuffer(p.BufIndex, to)
		b.WriteString(t.store.Bytes(p.BufIndex)[lo:hi])

		remaining -= take
		rem = 0
		h = t.tree.Next(h)
	}
	return b.String()
}

// GetOffsetAt converts a 1-based Position into a 0-based byte offset,
// clamping out-of-range lines or columns to the nearest valid position.
func (t *Tree) GetOffsetAt(pos Position) int {
	line := pos.Line
	if line < 1 {
		line = 1
	}
	lineCount := t.GetLineCount()
	if line > lineCount {
		return t.GetLength()
	}

	lineStartOffset := t.offsetOfLineStart(line)
	lineLen := t.getLineLength(line)
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > lineLen {
		col = lineLen
	}
	return lineStartOffset + col
}

// GetPositionAt converts a 0-based byte offset into a 1-based Position,
// clamping out-of-range offsets to the document's bounds.
func (t *Tree) GetPositionAt(offset int) Position {
	total := t.GetLength()
	offset = clampOffset(offset, total)
	if total == 0 {
		return Position{Line: 1, Column: 1}
	}
	h, rem := t.nodeAt(offset)
	if h == rbtree.NilHandle {
		return Position{Line: t.GetLineCount(), Column: t.getLineLength(t.GetLineCount()) + 1}
	}
	p := t.tree.Piece(h)
	cur := t.store.Advance(p.BufIndex, p.Start, rem)
	breaks := cur.Line - p.Start.Line
	if breaks > p.LineFeedCount {
		// a trailing CR whose LF starts the next piece is not a break yet
		breaks = p.LineFeedCount
	}
	line := t.tree.LineFeedOffsetOf(h) + breaks + 1
	return Position{Line: line, Column: offset - t.offsetOfLineStart(line) + 1}
}

// offsetOfLineStart returns the byte offset of the start of 1-based line.
func (t *Tree) offsetOfLineStart(line int) int {
	if line <= 1 {
		return 0
	}
	h, local := t.nodeAtLineFeed(line - 1)
	if h == rbtree.NilHandle {
		return t.GetLength()
	}
	p := t.tree.Piece(h)
	cur := bufstore.Cursor{Line: p.Start.Line + local, Column: 0}
	pieceLocal := t.store.OffsetInBuffer(p.BufIndex, cur) - t.store.OffsetInBuffer(p.BufIndex, p.Start)
	return t.tree.OffsetOf(h) + pieceLocal
}

// getLineLength returns the byte length of 1-based line, excluding its
// terminator.
func (t *Tree) getLineLength(line int) int {
	start, end := t.lineSpan(line)
	return len(stripEOL(t.GetValueInRange(start, end)))
}

// GetLineLength returns the byte length of 1-based line, excluding its
// terminator. Out-of-range lines clamp to the nearest valid line.
func (t *Tree) GetLineLength(line int) int {
	line = clampLine(line, t.GetLineCount())
	return t.getLineLength(line)
}

// lineSpan returns the byte offsets bounding 1-based line, including its
// trailing terminator if one is present.
func (t *Tree) lineSpan(line int) (start, end int) {
	lineCount := t.GetLineCount()
	line = clampLine(line, lineCount)
	start = t.offsetOfLineStart(line)
	if line >= lineCount {
		end = t.GetLength()
	} else {
		end = t.offsetOfLineStart(line + 1)
	}
	return start, end
}

// GetLineContent returns the content of 1-based line with its trailing
// terminator, if any, trimmed off. Out-of-range lines clamp to the
// nearest valid line.
func (t *Tree) GetLineContent(line int) string {
	start, end := t.lineSpan(line)
	return stripEOL(t.GetValueInRange(start, end))
}

// GetLinesContent returns every line's content (terminators stripped), in
// order.
func (t *Tree) GetLinesContent() []string {
	n := t.GetLineCount()
	out := make([]string, n)
	for i := 1; i <= n; i++ {
		out[i-1] = t.GetLineContent(i)
	}
	return out
}

// GetLineCharCodeAt returns the byte at 1-based (line, column), or -1 if
// column is out of range for that line.
func (t *Tree) GetLineCharCodeAt(line, column int) int {
	content := t.GetLineContent(line)
	idx := column - 1
	if idx < 0 || idx >= len(content) {
		return -1
	}
	return int(content[idx])
}

func clampLine(line, lineCount int) int {
	if line < 1 {
		return 1
	}
	if line > lineCount {
		return lineCount
	}
	return line
}

func stripEOL(s string) string {
	for _, e := range []EOL{CRLF, LF, CR} {
		if strings.HasSuffix(s, string(e)) {
			return s[:len(s)-len(e)]
		}
	}
	return s
}

// SetEOL normalizes every line terminator in the document to eol,
// rebuilding the document from scratch. This is a full-document rewrite,
// not an incremental edit, and is meant to be called rarely (e.g. once
// when a file's configured line ending changes).
func (t *Tree) SetEOL(eol EOL) {
	full := t.GetValueInRange(0, t.GetLength())
	normalized := normalizeEOL(full, eol)
	*t = *NewFromStrings([]string{normalized}, WithEOL(eol), WithAlreadyNormalized(), WithSearchCacheLimit(t.cfg.searchCacheLimit))
}

func normalizeEOL(s string, eol EOL) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(string(eol))
		case '\n':
			b.WriteString(string(eol))
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Equal reports whether two trees currently hold identical content. It
// compares streamed content only, independent of internal piece layout:
// two trees built through entirely different edit histories are equal as
// long as they read back the same bytes.
func (t *Tree) Equal(other *Tree) bool {
	if t.GetLength() != other.GetLength() {
		return false
	}
	return t.GetValueInRange(0, t.GetLength()) == other.GetValueInRange(0, other.GetLength())
}
