package rbtree

// leftRotate performs the standard red-black left rotation around x,
// pivoting x's right child y up into x's place. Only y's left-subtree
// aggregates need recomputing afterward: x's left child is untouched, and
// y's left child becomes x.
func (t *Tree) leftRotate(x Handle) {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	if t.nodes[y].left != NilHandle {
		t.nodes[t.nodes[y].left].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	switch {
	case t.nodes[x].parent == NilHandle:
		t.root = y
	case x == t.nodes[t.nodes[x].parent].left:
		t.nodes[t.nodes[x].parent].left = y
	default:
		t.nodes[t.nodes[x].parent].right = y
	}
	t.nodes[y].left = x
	t.nodes[x].parent = y
	t.recomputeOne(y)
}

// rightRotate is the mirror of leftRotate: x's left child y pivots up,
// and x's left-subtree aggregates are recomputed since x's left child
// changed.
func (t *Tree) rightRotate(x Handle) {
	y := t.nodes[x].left
	t.nodes[x].left = t.nodes[y].right
	if t.nodes[y].right != NilHandle {
		t.nodes[t.nodes[y].right].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	switch {
	case t.nodes[x].parent == NilHandle:
		t.root = y
	case x == t.nodes[t.nodes[x].parent].right:
		t.nodes[t.nodes[x].parent].right = y
	default:
		t.nodes[t.nodes[x].parent].left = y
	}
	t.nodes[y].right = x
	t.nodes[x].parent = y
	t.recomputeOne(x)
}

// subtreeSize returns the total byte length of the subtree rooted at h.
// It only descends the right spine: sizeLeft already accounts for every
// node's own left subtree, so this is O(height) rather than O(size).
func (t *Tree) subtreeSize(h Handle) int {
	if h == NilHandle {
		return 0
	}
	n := &t.nodes[h]
	return n.sizeLeft + n.piece.Length + t.subtreeSize(n.right)
}

// subtreeLF mirrors subtreeSize for line-feed counts.
func (t *Tree) subtreeLF(h Handle) int {
	if h == NilHandle {
		return 0
	}
	n := &t.nodes[h]
	return n.lfLeft + n.piece.LineFeedCount + t.subtreeLF(n.right)
}

// recomputeOne refreshes h's own sizeLeft/lfLeft from its current left
// child, without touching anything else.
func (t *Tree) recomputeOne(h Handle) {
	left := t.nodes[h].left
	t.nodes[h].sizeLeft = t.subtreeSize(left)
	t.nodes[h].lfLeft = t.subtreeLF(left)
}

// recomputeUpward refreshes h and every ancestor of h, in that order. It
// is used after structural changes where the set of affected nodes is
// easier to characterize as "this node and everything above it" than as
// a clean delta, at the cost of being O(log^2 n) instead of O(log n) in
// the worst case.
func (t *Tree) recomputeUpward(h Handle) {
	for h != NilHandle {
		t.recomputeOne(h)
		h = t.nodes[h].parent
	}
}

// updateAggregatesDelta adds dLen/dLF to the sizeLeft/lfLeft of every
// ancestor of h reached by ascending through a left-child link: sizeLeft
// and lfLeft only cover a node's left subtree, so only ancestors whose
// left subtree contains h need adjusting.
func (t *Tree) updateAggregatesDelta(h Handle, dLen, dLF int) {
	if dLen == 0 && dLF == 0 {
		return
	}
	for cur, p := h, t.nodes[h].parent; p != NilHandle; cur, p = p, t.nodes[p].parent {
		if t.nodes[p].left == cur {
			t.nodes[p].sizeLeft += dLen
			t.nodes[p].lfLeft += dLF
		}
	}
}

// Leftmost returns the leftmost (in-order first) node of the subtree
// rooted at h.
func (t *Tree) Leftmost(h Handle) Handle {
	if h == NilHandle {
		return NilHandle
	}
	for t.nodes[h].left != NilHandle {
		h = t.nodes[h].left
	}
	return h
}

// Rightmost returns the rightmost (in-order last) node of the subtree
// rooted at h.
func (t *Tree) Rightmost(h Handle) Handle {
	if h == NilHandle {
		return NilHandle
	}
	for t.nodes[h].right != NilHandle {
		h = t.nodes[h].right
	}
	return h
}

// Next returns h's in-order successor, or NilHandle if h is the last
// node.
func (t *Tree) Next(h Handle) Handle {
	if h == NilHandle {
		return NilHandle
	}
	if t.nodes[h].right != NilHandle {
		return t.Leftmost(t.nodes[h].right)
	}
	p := t.nodes[h].parent
	for p != NilHandle && h == t.nodes[p].right {
		h = p
		p = t.nodes[p].parent
	}
	return p
}

// Prev returns h's in-order predecessor, or NilHandle if h is the first
// node.
func (t *Tree) Prev(h Handle) Handle {
	if h == NilHandle {
		return NilHandle
	}
	if t.nodes[h].left != NilHandle {
		return t.Rightmost(t.nodes[h].left)
	}
	p := t.nodes[h].parent
	for p != NilHandle && h == t.nodes[p].left {
		h = p
		p = t.nodes[p].parent
	}
	return p
}

// TotalLength returns the combined byte length of every piece in the
// tree.
func (t *Tree) TotalLength() int { return t.subtreeSize(t.root) }

// TotalLineFeedCount returns the combined line-feed count of every piece
// in the tree.
func (t *Tree) TotalLineFeedCount() int { return t.subtreeLF(t.root) }

// NodeAtOffset locates the piece containing byte offset and returns its
// handle plus the offset's position relative to that piece's start. An
// offset landing exactly on a piece boundary resolves to the piece
// ending there, with a remainder equal to that piece's length.
func (t *Tree) NodeAtOffset(offset int) (Handle, int) {
	h := t.root
	for h != NilHandle {
		n := &t.nodes[h]
		switch {
		case n.left != NilHandle && n.sizeLeft >= offset:
			h = n.left
		case n.sizeLeft+n.piece.Length >= offset:
			return h, offset - n.sizeLeft
		default:
			offset -= n.sizeLeft + n.piece.Length
			h = n.right
		}
	}
	return NilHandle, 0
}

// NodeAtLineFeed locates the piece containing the lineFeedIndex-th line
// break (counting from 1) and returns its handle plus that break's
// position among the piece's own line breaks (1..LineFeedCount). An
// index of 0 resolves to the first piece with a remainder of 0.
func (t *Tree) NodeAtLineFeed(lineFeedIndex int) (Handle, int) {
	h := t.root
	for h != NilHandle {
		n := &t.nodes[h]
		switch {
		case n.left != NilHandle && n.lfLeft >= lineFeedIndex:
			h = n.left
		case n.lfLeft+n.piece.LineFeedCount >= lineFeedIndex:
			return h, lineFeedIndex - n.lfLeft
		default:
			lineFeedIndex -= n.lfLeft + n.piece.LineFeedCount
			h = n.right
		}
	}
	return NilHandle, 0
}

// OffsetOf returns h's starting byte offset within the whole tree.
func (t *Tree) OffsetOf(h Handle) int {
	offset := t.nodes[h].sizeLeft
	for cur, p := h, t.nodes[h].parent; p != NilHandle; cur, p = p, t.nodes[p].parent {
		if t.nodes[p].right == cur {
			offset += t.nodes[p].sizeLeft + t.nodes[p].piece.Length
		}
	}
	return offset
}

// LineFeedOffsetOf returns the number of line breaks in the whole tree
// that occur strictly before h's piece.
func (t *Tree) LineFeedOffsetOf(h Handle) int {
	offset := t.nodes[h].lfLeft
	for cur, p := h, t.nodes[h].parent; p != NilHandle; cur, p = p, t.nodes[p].parent {
		if t.nodes[p].right == cur {
			offset += t.nodes[p].lfLeft + t.nodes[p].piece.LineFeedCount
		}
	}
	return offset
}

// InsertRight inserts a new node holding p immediately after h in-order
// (as h's right child if it has none, otherwise as the leftmost
// descendant of h's right subtree). If the tree is empty, h is ignored
// and the new node becomes the root.
func (t *Tree) InsertRight(h Handle, p Piece) Handle {
	z := t.alloc(p)
	if t.root == NilHandle {
		t.root = z
		t.nodes[z].color = Black
		return z
	}
	if t.nodes[h].right == NilHandle {
		t.nodes[h].right = z
		t.nodes[z].parent = h
	} else {
		next := t.Leftmost(t.nodes[h].right)
		t.nodes[next].left = z
		t.nodes[z].parent = next
	}
	t.updateAggregatesDelta(z, p.Length, p.LineFeedCount)
	t.insertFixup(z)
	return z
}

// InsertLeft inserts a new node holding p immediately before h in-order.
func (t *Tree) InsertLeft(h Handle, p Piece) Handle {
	z := t.alloc(p)
	if t.root == NilHandle {
		t.root = z
		t.nodes[z].color = Black
		return z
	}
	if t.nodes[h].left == NilHandle {
		t.nodes[h].left = z
		t.nodes[z].parent = h
	} else {
		prev := t.Rightmost(t.nodes[h].left)
		t.nodes[prev].right = z
		t.nodes[z].parent = prev
	}
	t.updateAggregatesDelta(z, p.Length, p.LineFeedCount)
	t.insertFixup(z)
	return z
}

// UpdatePiece replaces h's piece in place and propagates the resulting
// length/line-feed delta to every ancestor. Used when an edit extends or
// shrinks an existing piece instead of splitting or removing it.
func (t *Tree) UpdatePiece(h Handle, p Piece) {
	old := t.nodes[h].piece
	dLen := p.Length - old.Length
	dLF := p.LineFeedCount - old.LineFeedCount
	t.nodes[h].piece = p
	t.updateAggregatesDelta(h, dLen, dLF)
}

// transplant replaces the subtree rooted at u with the subtree rooted at
// v and returns v's new parent handle, even when v is the NIL sentinel.
func (t *Tree) transplant(u, v Handle) Handle {
	pu := t.nodes[u].parent
	switch {
	case pu == NilHandle:
		t.root = v
	case u == t.nodes[pu].left:
		t.nodes[pu].left = v
	default:
		t.nodes[pu].right = v
	}
	t.nodes[v].parent = pu
	return pu
}

// Delete removes z from the tree and releases its arena slot.
func (t *Tree) Delete(z Handle) {
	y := z
	yColor := t.nodes[y].color
	var x, xParent Handle

	switch {
	case t.nodes[z].left == NilHandle:
		x = t.nodes[z].right
		xParent = t.transplant(z, x)
	case t.nodes[z].right == NilHandle:
		x = t.nodes[z].left
		xParent = t.transplant(z, x)
	default:
		y = t.Leftmost(t.nodes[z].right)
		yColor = t.nodes[y].color
		x = t.nodes[y].right
		if t.nodes[y].parent == z {
			xParent = y
			t.nodes[x].parent = y
		} else {
			xParent = t.transplant(y, x)
			t.nodes[y].right = t.nodes[z].right
			t.nodes[t.nodes[y].right].parent = y
		}
		t.transplant(z, y)
		t.nodes[y].left = t.nodes[z].left
		t.nodes[t.nodes[y].left].parent = y
		t.nodes[y].color = t.nodes[z].color
		t.recomputeOne(y)
	}

	t.release(z)

	if yColor == Black {
		t.deleteFixup(x, xParent)
	}

	t.recomputeUpward(xParent)
}

func (t *Tree) insertFixup(z Handle) {
	for t.nodes[t.nodes[z].parent].color == Red {
		parent := t.nodes[z].parent
		grand := t.nodes[parent].parent
		if parent == t.nodes[grand].left {
			uncle := t.nodes[grand].right
			if t.nodes[uncle].color == Red {
				t.nodes[parent].color = Black
				t.nodes[uncle].color = Black
				t.nodes[grand].color = Red
				z = grand
				continue
			}
			if z == t.nodes[parent].right {
				z = parent
				t.leftRotate(z)
				parent = t.nodes[z].parent
				grand = t.nodes[parent].parent
			}
			t.nodes[parent].color = Black
			t.nodes[grand].color = Red
			t.rightRotate(grand)
		} else {
			uncle := t.nodes[grand].left
			if t.nodes[uncle].color == Red {
				t.nodes[parent].color = Black
				t.nodes[uncle].color = Black
				t.nodes[grand].color = Red
				z = grand
				continue
			}
			if z == t.nodes[parent].left {
				z = parent
				t.rightRotate(z)
				parent = t.nodes[z].parent
				grand = t.nodes[parent].parent
			}
			t.nodes[parent].color = Black
			t.nodes[grand].color = Red
			t.leftRotate(grand)
		}
	}
	t.nodes[t.root].color = Black
}

func (t *Tree) deleteFixup(x, xParent Handle) {
	for x != t.root && t.nodes[x].color == Black {
		if x == t.nodes[xParent].left {
			w := t.nodes[xParent].right
			if t.nodes[w].color == Red {
				t.nodes[w].color = Black
				t.nodes[xParent].color = Red
				t.leftRotate(xParent)
				w = t.nodes[xParent].right
			}
			if t.nodes[t.nodes[w].left].color == Black && t.nodes[t.nodes[w].right].color == Black {
				t.nodes[w].color = Red
				x = xParent
				xParent = t.nodes[x].parent
				continue
			}
			if t.nodes[t.nodes[w].right].color == Black {
				t.nodes[t.nodes[w].left].color = Black
				t.nodes[w].color = Red
				t.rightRotate(w)
				w = t.nodes[xParent].right
			}
			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = Black
			t.nodes[t.nodes[w].right].color = Black
			t.leftRotate(xParent)
			x = t.root
		} else {
			w := t.nodes[xParent].left
			if t.nodes[w].color == Red {
				t.nodes[w].color = Black
				t.nodes[xParent].color = Red
				t.rightRotate(xParent)
				w = t.nodes[xParent].left
			}
			if t.nodes[t.nodes[w].right].color == Black && t.nodes[t.nodes[w].left].color == Black {
				t.nodes[w].color = Red
				x = xParent
				xParent = t.nodes[x].parent
				continue
			}
			if t.nodes[t.nodes[w].left].color == Black {
				t.nodes[t.nodes[w].right].color = Black
				t.nodes[w].color = Red
				t.leftRotate(w)
				w = t.nodes[xParent].left
			}
			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = Black
			t.nodes[t.nodes[w].left].color = Black
			t.rightRotate(xParent)
			x = t.root
		}
	}
	t.nodes[x].color = Black
}
