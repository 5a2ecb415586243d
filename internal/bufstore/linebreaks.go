package bufstore

// LineBreakStats is the result of a full scan over a string: the byte
// offsets of every line start after position 0, plus counts of each
// terminator class and a flag for the "all bytes are printable ASCII or
// tab" fast-path optimization upstream components rely on.
type LineBreakStats struct {
	// Breaks holds the byte offset immediately following each line
	// terminator, in increasing order. Position 0 (the start of the
	// scanned string) is never included here — callers that need a
	// buffer-style line_starts table (where index 0 is always 0) prepend
	// it themselves.
	Breaks []int

	CR   int
	LF   int
	CRLF int

	// BasicASCII is true when every byte in the scanned string is either
	// a tab (0x09) or in the printable range [0x20, 0x7E]. A single byte
	// outside that set clears it permanently.
	BasicASCII bool
}

// ScanLineBreaks performs the full single-pass scan described by the
// line-starts builder: for each position, a CR immediately followed by LF
// is treated as one terminator (CRLF), a lone CR or LF is its own
// terminator, and the scan never looks behind the current byte.
func ScanLineBreaks(s string) LineBreakStats {
	stats := LineBreakStats{BasicASCII: true}
	n := len(s)
	for i := 0; i < n; i++ {
		b := s[i]
		switch {
		case b == '\r':
			if i+1 < n && s[i+1] == '\n' {
				stats.Breaks = append(stats.Breaks, i+2)
				stats.CRLF++
				i++ // skip the LF we just consumed
			} else {
				stats.Breaks = append(stats.Breaks, i+1)
				stats.CR++
			}
		case b == '\n':
			stats.Breaks = append(stats.Breaks, i+1)
			stats.LF++
		}
		if stats.BasicASCII && !isBasicASCII(b) {
			stats.BasicASCII = false
		}
	}
	return stats
}

// ScanLineBreakOffsets is the fast path: it returns only the line-start
// offsets, skipping the CR/LF/CRLF counters and the ASCII flag. Both this
// and ScanLineBreaks must produce byte-identical Breaks for the same input.
func ScanLineBreakOffsets(s string) []int {
	var breaks []int
	n := len(s)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '\r':
			if i+1 < n && s[i+1] == '\n' {
				breaks = append(breaks, i+2)
				i++
			} else {
				breaks = append(breaks, i+1)
			}
		case '\n':
			breaks = append(breaks, i+1)
		}
	}
	return breaks
}

// isBasicASCII reports whether b is a tab or a printable ASCII byte.
func isBasicASCII(b byte) bool {
	return b == '\t' || (b >= 32 && b <= 126)
}

// LineStartsWithLeadingZero builds a buffer-style line_starts table from a
// full scan: index 0 is always 0, followed by the monotonically increasing
// break offsets.
func LineStartsWithLeadingZero(s string) []int {
	breaks := ScanLineBreakOffsets(s)
	starts := make([]int, 0, len(breaks)+1)
	starts = append(starts, 0)
	starts = append(starts, breaks...)
	return starts
}
