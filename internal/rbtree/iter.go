package rbtree

// Iterator walks a tree's pieces in-order. Its zero value is not usable;
// construct one with NewIterator.
type Iterator struct {
	tree       *Tree
	cur        Handle
	afterFirst bool
}

// NewIterator returns an iterator positioned before the tree's first
// piece.
func NewIterator(t *Tree) *Iterator {
	return &Iterator{tree: t, cur: NilHandle}
}

// Next advances to and returns the next piece in-order, or ok=false once
// the tree is exhausted.
func (it *Iterator) Next() (h Handle, p Piece, ok bool) {
	if !it.afterFirst {
		it.cur = it.tree.Leftmost(it.tree.root)
		it.afterFirst = true
	} else {
		it.cur = it.tree.Next(it.cur)
	}
	if it.cur == NilHandle {
		return NilHandle, Piece{}, false
	}
	return it.cur, it.tree.Piece(it.cur), true
}

// Reset rewinds the iterator to before the first piece.
func (it *Iterator) Reset() {
	it.cur = NilHandle
	it.afterFirst = false
}
