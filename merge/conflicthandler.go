package merge

import "github.com/hczhang/treesync/tree"

// ConflictHandler is the pluggable policy hook for conflict resolution or
// escalation (spec §4.3). Each hook may resolve in place -- the content
// hooks by returning reconciled content, the structural hooks by seeking
// the supplied cursors to a consistent position and returning a nil error
// -- or re-raise by returning a non-nil error, which aborts the merge.
type ConflictHandler[K comparable, C any] interface {
	// CollidingContent resolves two freshly-inserted nodes that happen to
	// share an id but carry different content (the id(n1)==id(n2),
	// not-in-base, BOTH-insert case in the per-step decision table).
	CollidingContent(id K, first, second C) (C, error)

	// ConflictingContent resolves diverging updates to an existing node,
	// after the NodeMerger itself has failed to reconcile them.
	ConflictingContent(id K, base, first, second C) (C, error)

	// CollidingNode handles two different new ids inserted at the same
	// position. cursor1/cursor2 are positioned at the colliding nodes;
	// a resolving handler may Seek either to change which node is taken
	// first and return a nil error, or re-raise.
	CollidingNode(first, second tree.Node[K, C], cursor1, cursor2 *Cursor[K, C]) error

	// ConflictingPosition handles a node placed in mutually incompatible
	// positions by the two branches. base/first/second are the node as
	// seen at this cursor step in each tree, nil where a tree has nothing
	// at this position (sentinel DELETIA/EOS).
	ConflictingPosition(base, first, second tree.Node[K, C], cursorBase, cursor1, cursor2 *Cursor[K, C]) error
}

// FailFastConflictHandler is the default ConflictHandler: every hook
// re-raises as a terminating conflict, matching spec §4.3's "default
// handler re-raises on all four".
type FailFastConflictHandler[K comparable, C any] struct{}

func (FailFastConflictHandler[K, C]) CollidingContent(id K, first, second C) (C, error) {
	var zero C
	return zero, &ContentConflictError{ID: id}
}

func (FailFastConflictHandler[K, C]) ConflictingContent(id K, base, first, second C) (C, error) {
	var zero C
	return zero, &ContentConflictError{ID: id}
}

func (FailFastConflictHandler[K, C]) CollidingNode(first, second tree.Node[K, C], cursor1, cursor2 *Cursor[K, C]) error {
	return &StructuralConflictError{Kind: CollidingInsert, ID: first.ID()}
}

func (FailFastConflictHandler[K, C]) ConflictingPosition(base, first, second tree.Node[K, C], cursorBase, cursor1, cursor2 *Cursor[K, C]) error {
	id := any(nil)
	switch {
	case first != nil:
		id = first.ID()
	case second != nil:
		id = second.ID()
	case base != nil:
		id = base.ID()
	}
	return &StructuralConflictError{Kind: ConflictingPosition, ID: id}
}
