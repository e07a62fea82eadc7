package tree

import (
	"fmt"

	"github.com/pkg/errors"
)

// NodeNotFoundError is returned whenever an id is required but absent:
// lookup, parent resolution, or a mutation target.
type NodeNotFoundError struct {
	ID any
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("tree: node not found: %v", e.ID)
}

// DuplicateIDError is returned by Insert when the id is already present.
type DuplicateIDError struct {
	ID any
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("tree: duplicate id: %v", e.ID)
}

// InvalidMoveError is returned by Move for a cycle (mover is an ancestor
// of, or equal to, the target parent) or an attempt to move the root.
type InvalidMoveError struct {
	ID     any
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("tree: invalid move of %v: %s", e.ID, e.Reason)
}

// InvalidPositionError is returned by Insert/Move when pos falls outside
// the allowed range for the operation.
type InvalidPositionError struct {
	Pos, Min, Max int
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("tree: position %d out of range [%d, %d]", e.Pos, e.Min, e.Max)
}

// NotFound wraps a NodeNotFoundError with call-site context.
func NotFound(id any, context string) error {
	return errors.Wrapf(&NodeNotFoundError{ID: id}, "%s", context)
}
