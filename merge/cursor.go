package merge

import "github.com/hczhang/treesync/tree"

// cursor walks one parent's child list in one of the three input trees.
// After the last real child it yields END_OF_SEQUENCE exactly once; a
// cursor built over a DELETIA parent yields DELETIA indefinitely. This is
// the Go shape of the original TreeCursor, restated per spec §9 as "an
// iterator over child-list positions with an auxiliary index into the
// parent tree by id".
type cursor[K comparable, C any] struct {
	children  []tree.Node[K, C]
	idIndex   map[K]int
	idx       int
	exhausted bool
	isDeletia bool
}

func newCursor[K comparable, C any](parent mnode[K, C]) *cursor[K, C] {
	if parent.kind == kindDeletia {
		return &cursor[K, C]{isDeletia: true}
	}
	if parent.kind != kindReal {
		panic(internalError{msg: "cursor requires a real or deletia parent"})
	}
	kids := parent.real.Children()
	idx := make(map[K]int, len(kids))
	for i, k := range kids {
		idx[k.ID()] = i
	}
	return &cursor[K, C]{children: kids, idIndex: idx}
}

// next advances the cursor and returns the node at the new position.
func (c *cursor[K, C]) next() mnode[K, C] {
	if c.isDeletia {
		return deletia[K, C]()
	}
	if c.idx < len(c.children) {
		n := c.children[c.idx]
		c.idx++
		return realNode[K, C](n)
	}
	if !c.exhausted {
		c.exhausted = true
		return endOfSequence[K, C]()
	}
	panic(internalError{msg: "cursor advanced past end of sequence"})
}

// seekID repositions the cursor so the next call to next() returns the
// child following id, returning id's own node now. If id is not present
// in this child list the cursor is left at EOS and DELETIA is returned,
// per §9: "seek to a non-present id yields the deletia sentinel".
// Seeking the id already at the current position is a no-op in effect:
// it simply behaves like an ordinary next().
func (c *cursor[K, C]) seekID(id K) mnode[K, C] {
	if c.isDeletia {
		return deletia[K, C]()
	}
	pos, ok := c.idIndex[id]
	if !ok {
		c.idx = len(c.children)
		c.exhausted = false
		return deletia[K, C]()
	}
	c.idx = pos + 1
	c.exhausted = false
	return realNode[K, C](c.children[pos])
}

// seek realigns this cursor to the position of target, which may itself
// be END_OF_SEQUENCE (realign to the end) or a real node from a sibling
// cursor's current position.
func (c *cursor[K, C]) seek(target mnode[K, C]) mnode[K, C] {
	switch target.kind {
	case kindEndOfSequence, kindDeletia, kindStartOfSequence:
		if c.isDeletia {
			return deletia[K, C]()
		}
		c.idx = len(c.children)
		c.exhausted = false
		return c.next()
	default:
		return c.seekID(target.real.ID())
	}
}

// Cursor is the exported handle a resolving ConflictHandler can use to
// realign cursor state in place, per spec §4.3's "may resolve in place by
// ... advancing cursors".
type Cursor[K comparable, C any] struct {
	c *cursor[K, C]
}

// Seek repositions the cursor so the next merge step continues after id.
// Reports whether id was found in this cursor's child list.
func (pc *Cursor[K, C]) Seek(id K) bool {
	return pc.c.seekID(id).kind == kindReal
}
