package diag

import (
	"testing"

	"github.com/dshills/pietree/internal/bufstore"
	"github.com/dshills/pietree/internal/rbtree"
)

func buildSample(t *testing.T) *rbtree.Tree {
	t.Helper()
	tr := rbtree.New()
	last := rbtree.NilHandle
	for _, s := range []string{"hello ", "world", "!"} {
		last = tr.InsertRight(last, rbtree.Piece{
			BufIndex: 0,
			Start:    bufstore.Cursor{Line: 0, Column: 0},
			End:      bufstore.Cursor{Line: 0, Column: len(s)},
			Length:   len(s),
		})
	}
	return tr
}

func TestDumpNodeCountMatchesTree(t *testing.T) {
	tr := buildSample(t)
	dump, err := Dump(tr)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if got, want := Count(dump), tr.Len(); got != want {
		t.Errorf("Count(dump) = %d, want %d (tr.Len())", got, want)
	}
}

func TestDumpFieldsReadableViaGJSON(t *testing.T) {
	tr := buildSample(t)
	dump, err := Dump(tr)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	lengths := Field(dump, "#.length")
	var total int64
	for _, v := range lengths.Array() {
		total += v.Int()
	}
	if want := int64(tr.TotalLength()); total != want {
		t.Errorf("sum of per-node length fields = %d, want %d", total, want)
	}

	// Three InsertRight calls rotate the middle piece up to the black
	// root, leaving the first in-order node as its red left child.
	first := Field(dump, "0.color")
	if first.String() != "red" {
		t.Errorf("first in-order node's color = %q, want %q", first.String(), "red")
	}
}

func TestDumpIsDeterministic(t *testing.T) {
	tr := buildSample(t)
	a, err := Dump(tr)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	b, err := Dump(tr)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if a != b {
		t.Errorf("Dump is not deterministic across repeated calls on the same tree")
	}
}
