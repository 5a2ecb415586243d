package bufstore

import "sort"

// CursorAtOffset converts a byte offset within buffer bufIndex's content
// into a Cursor, by binary-searching the buffer's line_starts table.
func (s *Store) CursorAtOffset(bufIndex, absOffset int) Cursor {
	starts := s.LineStarts(bufIndex)
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > absOffset }) - 1
	if line < 0 {
		line = 0
	}
	return Cursor{Line: line, Column: absOffset - starts[line]}
}

// Advance returns the cursor n bytes after from within buffer bufIndex.
func (s *Store) Advance(bufIndex int, from Cursor, n int) Cursor {
	abs := s.OffsetInBuffer(bufIndex, from) + n
	return s.CursorAtOffset(bufIndex, abs)
}
