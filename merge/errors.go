package merge

import "fmt"

// StructuralConflictKind enumerates the eight subkinds of irreconcilable
// structural state the merger can detect.
type StructuralConflictKind int

const (
	CollidingInsert StructuralConflictKind = iota
	ConflictingPosition
	DeleteMove
	DeleteChange
	MovedOutOfDeletedSubtree
	InsertedIntoDeletedSubtree
	InsertedThenDeleted
	CyclicMerge
)

func (k StructuralConflictKind) String() string {
	switch k {
	case CollidingInsert:
		return "CollidingInsert"
	case ConflictingPosition:
		return "ConflictingPosition"
	case DeleteMove:
		return "DeleteMove"
	case DeleteChange:
		return "DeleteChange"
	case MovedOutOfDeletedSubtree:
		return "MovedOutOfDeletedSubtree"
	case InsertedIntoDeletedSubtree:
		return "InsertedIntoDeletedSubtree"
	case InsertedThenDeleted:
		return "InsertedThenDeleted"
	case CyclicMerge:
		return "CyclicMerge"
	default:
		return fmt.Sprintf("StructuralConflictKind(%d)", int(k))
	}
}

// StructuralConflictError is raised by the merger whenever it detects an
// irreconcilable structural state (§7's StructuralConflict taxonomy). The
// default ConflictHandler turns every one of these into a terminating
// ConflictError; a resolving handler may instead repair cursor state and
// let the merge continue.
type StructuralConflictError struct {
	Kind   StructuralConflictKind
	ID     any
	Detail string
}

func (e *StructuralConflictError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("merge: structural conflict (%s) at %v", e.Kind, e.ID)
	}
	return fmt.Sprintf("merge: structural conflict (%s) at %v: %s", e.Kind, e.ID, e.Detail)
}

// ContentConflictError is raised by a NodeMerger when both branches diverge
// from base in ways it cannot reconcile.
type ContentConflictError struct {
	ID any
}

func (e *ContentConflictError) Error() string {
	return fmt.Sprintf("merge: content conflict at %v", e.ID)
}

// internalError marks a broken algorithm invariant -- the Go analogue of
// the original implementation's unchecked assertion failures. It is
// recovered at the Merge entry point and turned into a returned error
// rather than crashing the process, since this package is a library, not
// the teacher's command-line driver.
type internalError struct {
	msg string
}

func (e internalError) Error() string {
	return "merge: internal error: " + e.msg
}
