package rbtree

// Handle is an index into a Tree's node arena. The zero Handle always
// refers to the shared NIL sentinel, never to a real node.
type Handle uint32

// NilHandle is the sentinel handle: every leaf link and every node's
// initial parent/child point here instead of to a Go nil pointer.
const NilHandle Handle = 0

// Color is a red-black node color. The zero value is Black, so a freshly
// zeroed sentinel slot is black without any extra initialization.
type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// node is one arena slot: a piece plus red-black tree linkage and the
// augmented aggregates of its left subtree.
type node struct {
	piece Piece
	color Color

	parent, left, right Handle

	// sizeLeft is the total byte length of the left subtree's pieces.
	// lfLeft is the total line-feed count of the left subtree's pieces.
	// Both are maintained so that an in-order byte offset or line number
	// can be located in O(log n) without summing every piece to the
	// left of a node.
	sizeLeft int
	lfLeft   int
}

// Tree is an augmented red-black tree of pieces, stored as a handle-based
// arena rather than heap-allocated nodes.
type Tree struct {
	nodes []node
	free  []Handle
	root  Handle
}

// New returns an empty tree. Index 0 of the arena is reserved for the NIL
// sentinel and is never reused.
func New() *Tree {
	return &Tree{nodes: make([]node, 1), root: NilHandle}
}

// Root returns the handle of the tree's root, or NilHandle if empty.
func (t *Tree) Root() Handle { return t.root }

// IsNil reports whether h is the sentinel handle.
func (t *Tree) IsNil(h Handle) bool { return h == NilHandle }

// Piece returns the piece stored at h.
func (t *Tree) Piece(h Handle) Piece { return t.nodes[h].piece }

// SetPiece replaces the piece stored at h. Callers must follow with an
// aggregate update, since Length/LineFeedCount may have changed.
func (t *Tree) SetPiece(h Handle, p Piece) { t.nodes[h].piece = p }

// Left, Right, Parent return h's neighbors; Color returns h's color.
func (t *Tree) Left(h Handle) Handle   { return t.nodes[h].left }
func (t *Tree) Right(h Handle) Handle  { return t.nodes[h].right }
func (t *Tree) Parent(h Handle) Handle { return t.nodes[h].parent }
func (t *Tree) Color(h Handle) Color   { return t.nodes[h].color }

// SizeLeft and LFLeft return h's cached left-subtree aggregates.
func (t *Tree) SizeLeft(h Handle) int { return t.nodes[h].sizeLeft }
func (t *Tree) LFLeft(h Handle) int   { return t.nodes[h].lfLeft }

// Len reports the number of pieces currently live in the tree.
func (t *Tree) Len() int {
	return len(t.nodes) - 1 - len(t.free)
}

// alloc returns a handle to a fresh red node holding p, reusing a freed
// arena slot when one is available.
func (t *Tree) alloc(p Piece) Handle {
	n := node{piece: p, color: Red, parent: NilHandle, left: NilHandle, right: NilHandle}
	if len(t.free) > 0 {
		h := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// release returns h's arena slot to the freelist. h must already be
// unlinked from the tree.
func (t *Tree) release(h Handle) {
	t.nodes[h] = node{}
	t.free = append(t.free, h)
}
