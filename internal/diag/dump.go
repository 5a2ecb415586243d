package diag

import (
	"fmt"

	"github.com/dshills/pietree/internal/rbtree"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// NodeView is one piece's structural fields as captured by Dump, before
// JSON encoding. It mirrors spec.md's Tree node entity (§3): the piece
// itself plus the red-black color and the two augmented aggregates a
// rotation or recoloring must keep consistent.
type NodeView struct {
	Index         int    `json:"index"`
	BufIndex      int    `json:"bufIndex"`
	Length        int    `json:"length"`
	LineFeedCount int    `json:"lineFeedCount"`
	Color         string `json:"color"`
	SizeLeft      int    `json:"sizeLeft"`
	LFLeft        int    `json:"lfLeft"`
	Offset        int    `json:"offset"`
}

// Nodes walks t in-order and returns one NodeView per live piece.
func Nodes(t *rbtree.Tree) []NodeView {
	views := make([]NodeView, 0, t.Len())
	it := rbtree.NewIterator(t)
	offset := 0
	for i := 0; ; i++ {
		h, p, ok := it.Next()
		if !ok {
			break
		}
		views = append(views, NodeView{
			Index:         i,
			BufIndex:      p.BufIndex,
			Length:        p.Length,
			LineFeedCount: p.LineFeedCount,
			Color:         t.Color(h).String(),
			SizeLeft:      t.SizeLeft(h),
			LFLeft:        t.LFLeft(h),
			Offset:        offset,
		})
		offset += p.Length
	}
	return views
}

// Dump renders t's current in-order node sequence as indented JSON, built
// by composing one field at a time with sjson.Set rather than marshaling
// NodeView directly — the dump's shape is therefore independent of
// whatever Go struct a future refactor gives the node list, which matters
// for golden-file comparisons across versions.
func Dump(t *rbtree.Tree) (string, error) {
	doc := "[]"
	for _, v := range Nodes(t) {
		var err error
		p := fmt.Sprintf("%d.", v.Index)
		for _, set := range []struct {
			path string
			val  any
		}{
			{p + "bufIndex", v.BufIndex},
			{p + "length", v.Length},
			{p + "lineFeedCount", v.LineFeedCount},
			{p + "color", v.Color},
			{p + "sizeLeft", v.SizeLeft},
			{p + "lfLeft", v.LFLeft},
			{p + "offset", v.Offset},
		} {
			doc, err = sjson.Set(doc, set.path, set.val)
			if err != nil {
				return "", fmt.Errorf("diag: building node %d: %w", v.Index, err)
			}
		}
	}
	return string(pretty.Pretty([]byte(doc))), nil
}
