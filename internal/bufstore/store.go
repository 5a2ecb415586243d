package bufstore

// Store is the full buffer store behind a piece tree: one mutable append
// buffer at index 0, plus zero or more immutable original buffers at
// indices 1..N supplied at construction time.
type Store struct {
	Mutable   *AppendBuffer
	Originals []Entry
}

// New builds a Store from the original buffer contents a piece tree is
// seeded with. The mutable append buffer starts empty.
func New(originals []string) *Store {
	s := &Store{Mutable: NewAppendBuffer()}
	if len(originals) == 0 {
		return s
	}
	s.Originals = make([]Entry, len(originals))
	for i, o := range originals {
		s.Originals[i] = NewEntry(o)
	}
	return s
}

// Bytes returns the full content of buffer bufIndex.
func (s *Store) Bytes(bufIndex int) string {
	if bufIndex == 0 {
		return s.Mutable.Bytes()
	}
	return s.Originals[bufIndex-1].Bytes
}

// LineStarts returns the line_starts table of buffer bufIndex.
func (s *Store) LineStarts(bufIndex int) []int {
	if bufIndex == 0 {
		return s.Mutable.LineStarts()
	}
	return s.Originals[bufIndex-1].LineStarts
}

// LineCount returns how many lines buffer bufIndex's content spans.
func (s *Store) LineCount(bufIndex int) int {
	return len(s.LineStarts(bufIndex))
}

// OffsetInBuffer converts a cursor local to buffer bufIndex into a byte
// offset within that buffer's content.
func (s *Store) OffsetInBuffer(bufIndex int, c Cursor) int {
	return s.LineStarts(bufIndex)[c.Line] + c.Column
}

// LineLength returns the byte span of a line within a buffer, including
// any trailing terminator: the distance to the next line's start, or to
// the end of the buffer for the final line.
func (s *Store) LineLength(bufIndex, line int) int {
	ls := s.LineStarts(bufIndex)
	if line+1 < len(ls) {
		return ls[line+1] - ls[line]
	}
	return len(s.Bytes(bufIndex)) - ls[line]
}

// Append writes text into the mutable append buffer and returns the buffer
// index (always 0) and the cursor span it now occupies, ready to back a
// new Piece.
func (s *Store) Append(text string) (bufIndex int, start, end Cursor) {
	start, end = s.Mutable.Append(text)
	return 0, start, end
}

// LastCursor returns the append buffer's current tail cursor — spec.md's
// last_change_cursor, used to decide whether a new insertion can extend
// the most recently appended piece in place instead of allocating a new
// one.
func (s *Store) LastCursor() Cursor {
	return s.Mutable.End()
}
