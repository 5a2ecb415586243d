package piecetree

import (
	"reflect"
	"strings"
	"testing"
)

func TestScenarioS1BuildFromChunks(t *testing.T) {
	tr := NewFromString("hello\nworld", WithEOL(LF), WithAlreadyNormalized())

	if got := tr.GetLength(); got != 11 {
		t.Errorf("GetLength() = %d, want 11", got)
	}
	if got := tr.GetLineCount(); got != 2 {
		t.Errorf("GetLineCount() = %d, want 2", got)
	}
	if got := tr.GetLineContent(1); got != "hello" {
		t.Errorf("GetLineContent(1) = %q, want %q", got, "hello")
	}
	if got := tr.GetLineContent(2); got != "world" {
		t.Errorf("GetLineContent(2) = %q, want %q", got, "world")
	}
	if got := tr.GetOffsetAt(Position{2, 1}); got != 6 {
		t.Errorf("GetOffsetAt(2,1) = %d, want 6", got)
	}
	if got := tr.GetPositionAt(6); got != (Position{2, 1}) {
		t.Errorf("GetPositionAt(6) = %+v, want {2 1}", got)
	}
}

func TestScenarioS2InsertIntoEmpty(t *testing.T) {
	tr := New()
	tr.Insert(0, "ab")
	tr.Insert(1, "X")

	if got := tr.GetLinesContent(); !reflect.DeepEqual(got, []string{"aXb"}) {
		t.Errorf("GetLinesContent() = %v, want [aXb]", got)
	}
	if got := tr.GetLength(); got != 3 {
		t.Errorf("GetLength() = %d, want 3", got)
	}
}

func TestScenarioS3InsertIntoCRLFDocument(t *testing.T) {
	tr := NewFromString("line1\r\nline2\r\n", WithEOL(CRLF), WithAlreadyNormalized())
	tr.Insert(7, "INSERT")

	if got := tr.GetLineContent(2); got != "INSERTline2" {
		t.Errorf("GetLineContent(2) = %q, want %q", got, "INSERTline2")
	}
	if got := tr.GetLineCount(); got != 3 {
		t.Errorf("GetLineCount() = %d, want 3", got)
	}
}

func TestScenarioS4CRLFFixupAcrossPieces(t *testing.T) {
	tr := NewFromString("a\r", WithEOL(CRLF))
	tr.Insert(2, "\nb")

	if got := tr.GetLinesContent(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("GetLinesContent() = %v, want [a b]", got)
	}
	if got := tr.GetLineCount(); got != 2 {
		t.Errorf("GetLineCount() = %d, want 2", got)
	}
}

func TestScenarioS5DeleteThenReadRange(t *testing.T) {
	tr := NewFromString("abcdefghij")
	tr.Delete(2, 5)

	start := tr.GetOffsetAt(Position{1, 1})
	end := tr.GetOffsetAt(Position{1, 6})
	if got := tr.GetValueInRange(start, end); got != "abhij" {
		t.Errorf("GetValueInRange = %q, want %q", got, "abhij")
	}
}

func TestScenarioS6SnapshotIsolation(t *testing.T) {
	tr := New()
	tr.Insert(0, "ab")
	tr.Insert(1, "X")

	snap := tr.CreateSnapshot("")
	tr.Insert(0, "Z")

	if got := snap.Value(); got != "aXb" {
		t.Errorf("snapshot Value() = %q, want %q", got, "aXb")
	}
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "ZaXb" {
		t.Errorf("live tree = %q, want %q", got, "ZaXb")
	}
}

func TestSnapshotSequentialReadWithBOM(t *testing.T) {
	tr := New()
	tr.Insert(0, "ab")
	tr.Insert(1, "X")

	snap := tr.CreateSnapshot("\xef\xbb\xbf")

	var got strings.Builder
	for {
		chunk, ok := snap.Read()
		if !ok {
			break
		}
		got.WriteString(chunk)
	}
	if want := "\xef\xbb\xbfaXb"; got.String() != want {
		t.Errorf("sequential Read() concatenation = %q, want %q", got.String(), want)
	}

	// Exhausted snapshot keeps returning ok=false, matching the "read()
	// after exhaustion returns null" contract.
	if _, ok := snap.Read(); ok {
		t.Errorf("Read() after exhaustion: ok = true, want false")
	}
}

func TestInsertAtEndFastPathExtendsTailPiece(t *testing.T) {
	tr := New()
	tr.Insert(0, "hello")
	tr.Insert(5, " world")
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestInsertAtEndFastPathGuardByteDoesNotLeak(t *testing.T) {
	tr := New()
	tr.Insert(0, "a\r")
	tr.Insert(2, "\n")

	if got, want := tr.GetLength(), 3; got != want {
		t.Fatalf("GetLength() = %d, want %d", got, want)
	}
	if got, want := tr.GetValueInRange(0, tr.GetLength()), "a\r\n"; got != want {
		t.Errorf("GetValueInRange = %q, want %q", got, want)
	}
	if got, want := tr.GetLineCount(), 2; got != want {
		t.Errorf("GetLineCount() = %d, want %d", got, want)
	}
}

func TestInsertMidPieceSplits(t *testing.T) {
	tr := NewFromString("hello world")
	tr.Insert(5, ",")
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "hello, world" {
		t.Errorf("got %q, want %q", got, "hello, world")
	}
}

func TestDeleteWholePieceAndSpanningPieces(t *testing.T) {
	// Three distinct original buffers guarantee three separate pieces,
	// so this exercises Delete's multi-node path.
	tr := NewFromStrings([]string{"aaa", "bbb", "ccc"})

	tr.Delete(2, 5) // spans tail of "aaa", all of "bbb", head of "ccc"
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "aacc" {
		t.Errorf("got %q, want %q", got, "aacc")
	}
}

func TestGetLineLengthExcludesTerminator(t *testing.T) {
	tr := NewFromString("ab\ncde\n", WithEOL(LF), WithAlreadyNormalized())
	if got := tr.GetLineLength(1); got != 2 {
		t.Errorf("GetLineLength(1) = %d, want 2", got)
	}
	if got := tr.GetLineLength(2); got != 3 {
		t.Errorf("GetLineLength(2) = %d, want 3", got)
	}
}

func TestOutOfRangeReadsClamp(t *testing.T) {
	tr := NewFromString("hello")
	if got := tr.GetLineContent(0); got != "hello" {
		t.Errorf("GetLineContent(0) clamped = %q, want %q", got, "hello")
	}
	if got := tr.GetLineContent(100); got != "hello" {
		t.Errorf("GetLineContent(100) clamped = %q, want %q", got, "hello")
	}
	if got := tr.GetOffsetAt(Position{-5, -5}); got != 0 {
		t.Errorf("GetOffsetAt negative = %d, want 0", got)
	}
	if got := tr.GetPositionAt(-1); got != (Position{1, 1}) {
		t.Errorf("GetPositionAt(-1) = %+v, want {1 1}", got)
	}
	if got := tr.GetPositionAt(1000); got != (Position{1, 6}) {
		t.Errorf("GetPositionAt(1000) = %+v, want {1 6}", got)
	}
}

func TestEmptyMutationsAreNoops(t *testing.T) {
	tr := NewFromString("hello")
	tr.Insert(2, "")
	tr.Delete(2, 0)
	tr.Delete(2, -5)
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "hello" {
		t.Errorf("got %q, want unchanged %q", got, "hello")
	}
}

func TestEqualIsStructurallyIndependent(t *testing.T) {
	a := New()
	a.Insert(0, "hello world")

	b := New()
	b.Insert(0, "hello")
	b.Insert(5, " world")

	if !a.Equal(b) {
		t.Fatalf("trees with identical content but different piece histories should be Equal")
	}

	b.Insert(0, "X")
	if a.Equal(b) {
		t.Fatalf("trees with different content should not be Equal")
	}
}

func TestSetEOLRewritesTerminators(t *testing.T) {
	tr := NewFromString("a\nb\r\nc", WithEOL(LF))
	tr.SetEOL(CRLF)

	if got := tr.GetValueInRange(0, tr.GetLength()); got != "a\r\nb\r\nc" {
		t.Errorf("got %q, want %q", got, "a\r\nb\r\nc")
	}
	if got := tr.GetLineCount(); got != 3 {
		t.Errorf("GetLineCount() = %d, want 3", got)
	}
}

func TestMultipleOriginalBuffers(t *testing.T) {
	tr := NewFromStrings([]string{"foo\n", "bar\n"})
	if got := tr.GetValueInRange(0, tr.GetLength()); got != "foo\nbar\n" {
		t.Errorf("got %q, want %q", got, "foo\nbar\n")
	}
	if got := tr.GetLineCount(); got != 3 {
		t.Errorf("GetLineCount() = %d, want 3", got)
	}
}
