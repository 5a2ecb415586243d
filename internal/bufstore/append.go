package bufstore

import "strings"

// lineBreakGuardByte is inserted between a tail CR and a head LF when two
// successive appends would otherwise coalesce into a CRLF terminator that
// straddles two logical pieces (spec.md §4.7). It is never referenced by
// any piece's cursor range — it is a gap byte in the underlying storage,
// not buffer content.
const lineBreakGuardByte = "_"

// AppendBuffer is the single mutable buffer (index 0 of a Store) that all
// inserted text is concatenated into. It only ever grows.
type AppendBuffer struct {
	sb         strings.Builder
	lineStarts []int // always starts with 0
	end        Cursor
}

// NewAppendBuffer returns an empty append buffer.
func NewAppendBuffer() *AppendBuffer {
	return &AppendBuffer{lineStarts: []int{0}}
}

// Len returns the total byte length written so far, including any guard
// bytes inserted between appends.
func (b *AppendBuffer) Len() int { return b.sb.Len() }

// Bytes returns the buffer's full content as a string. strings.Builder.String
// is a zero-copy view, so this is O(1).
func (b *AppendBuffer) Bytes() string { return b.sb.String() }

// LineStarts returns the buffer-wide line_starts table.
func (b *AppendBuffer) LineStarts() []int { return b.lineStarts }

// End returns the cursor at the buffer's current tail — spec.md's
// last_change_cursor.
func (b *AppendBuffer) End() Cursor { return b.end }

// writeRaw appends s verbatim and extends the line-starts table and tail
// cursor. Callers are responsible for any CR/LF straddle guarding.
func (b *AppendBuffer) writeRaw(s string) {
	if len(s) == 0 {
		return
	}
	base := b.sb.Len()
	breaks := ScanLineBreakOffsets(s)
	b.sb.WriteString(s)
	for _, off := range breaks {
		b.lineStarts = append(b.lineStarts, base+off)
	}
	lastStart := b.lineStarts[len(b.lineStarts)-1]
	b.end = Cursor{Line: len(b.lineStarts) - 1, Column: b.sb.Len() - lastStart}
}

// Append writes text to the buffer and returns the (start, end) cursors of
// the span it now occupies. A Piece spanning [start, end) in this buffer
// describes exactly the text just written.
//
// If the buffer currently ends in a bare CR and text begins with LF, a
// one-byte guard separator is written first so the two never combine into
// a CRLF that straddles the piece boundary between the previous append and
// this one (spec.md §4.7).
func (b *AppendBuffer) Append(text string) (start, end Cursor) {
	if len(text) > 0 && b.sb.Len() > 0 {
		content := b.sb.String()
		if content[len(content)-1] == '\r' && text[0] == '\n' {
			b.writeRaw(lineBreakGuardByte)
		}
	}
	start = b.end
	b.writeRaw(text)
	end = b.end
	return start, end
}
