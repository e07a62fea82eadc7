// Package tree implements the ordered, labeled, by-id-addressed tree data
// model shared by the merge engine: nodes carry an opaque comparable id
// from domain K and opaque content from domain C, have exactly one parent
// except the root, and an ordered, semantically significant child list.
package tree

// Node is the read-only capability every tree node exposes: its id, its
// content, and its ordered children. Implementations are free to represent
// parent/child storage however they like; the merger only ever asks for
// this view.
type Node[K comparable, C any] interface {
	ID() K
	Content() C
	Children() []Node[K, C]
}

// Traversable exposes the root of a tree. An empty tree has a nil root.
type Traversable[K comparable, C any] interface {
	Root() Node[K, C]
}

// Addressable adds by-id lookup on top of Traversable. Lookup failures are
// reported through ok/err rather than panics, matching the rest of the
// package's style.
type Addressable[K comparable, C any] interface {
	Traversable[K, C]

	// Lookup returns the node with the given id, or ok=false if absent.
	Lookup(id K) (Node[K, C], bool)

	// ParentID returns the id of id's parent, ok=false if id is the root.
	// Returns NodeNotFoundError if id itself is not in the tree.
	ParentID(id K) (parentID K, ok bool, err error)
}

// DefaultPos requests the implementation-defined default insertion
// position, which MutableTree implementations in this package treat as
// "append at the end of the child list".
const DefaultPos = -1
