package merge

import (
	"github.com/golang/glog"
	"github.com/hczhang/treesync/tree"
)

// ConflictError wraps a StructuralConflictError or ContentConflictError
// returned by the default or a re-raising handler -- the terminating
// ConflictException of spec §7. Distinguishing it from a bare error lets
// callers (e.g. the CLI) tell "the inputs genuinely conflict" apart from
// "something else went wrong" (NodeNotFound, InternalError, ...).
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string { return e.Err.Error() }
func (e *ConflictError) Unwrap() error { return e.Err }

func isConflict(err error) bool {
	switch err.(type) {
	case *StructuralConflictError, *ContentConflictError:
		return true
	default:
		return false
	}
}

// Merge runs the three-way tree merge described in spec §4.4 with the
// default configuration (no node budget, no tracing). It is the library
// surface named in spec §6.
func Merge[K comparable, C any](
	base, first, second tree.Addressable[K, C],
	nodeMerger NodeMerger[K, C],
	conflictHandler ConflictHandler[K, C],
	editHandler EditHandler[K, C],
) (tree.Mutable[K, C], error) {
	return MergeWithConfig(base, first, second, nodeMerger, conflictHandler, editHandler, DefaultConfig())
}

// MergeWithConfig is Merge with an explicit Config, exposing the node
// budget and optional trace.
func MergeWithConfig[K comparable, C any](
	base, first, second tree.Addressable[K, C],
	nodeMerger NodeMerger[K, C],
	conflictHandler ConflictHandler[K, C],
	editHandler EditHandler[K, C],
	cfg Config,
) (out tree.Mutable[K, C], err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(internalError); ok {
				out, err = nil, ie
				return
			}
			panic(r)
		}
	}()

	if cfg.NodeBudget > 0 {
		if n := countNodes(base) + countNodes(first) + countNodes(second); n > cfg.NodeBudget {
			return nil, internalError{msg: "input exceeds configured node budget"}
		}
	}

	baseRoot, firstRoot, secondRoot := base.Root(), first.Root(), second.Root()
	output := tree.NewMutableTree[K, C]()
	if baseRoot == nil && firstRoot == nil && secondRoot == nil {
		return output, nil
	}
	if baseRoot == nil || firstRoot == nil || secondRoot == nil {
		return nil, internalError{msg: "inconsistent empty/non-empty roots across the three inputs"}
	}

	tm := &treeMerger[K, C]{
		base: base, first: first, second: second,
		nodeMerger:      nodeMerger,
		conflictHandler: conflictHandler,
		output:          output,
		emitted:         make(map[K]bool),
		origins:         newOrigins[K](),
		trace:           cfg.Trace,
	}

	rootID := baseRoot.ID()
	glog.Infof("merge: start, root id %v", rootID)
	rootContent, rootUpdateOrigin, err := tm.mergeNodeContent(rootID, baseRoot.Content(), firstRoot.Content(), secondRoot.Content())
	if err != nil {
		if isConflict(err) {
			return nil, &ConflictError{Err: err}
		}
		return nil, err
	}
	if err := output.Insert(rootContent, rootID, nil, tree.DefaultPos); err != nil {
		return nil, err
	}
	tm.emitted[rootID] = true
	if rootUpdateOrigin != OriginNone {
		tm.origins.setUpdate(rootID, rootUpdateOrigin)
	}

	if err := tm.mergeChildren(rootID, realNode[K, C](baseRoot), realNode[K, C](firstRoot), realNode[K, C](secondRoot)); err != nil {
		if isConflict(err) {
			return nil, &ConflictError{Err: err}
		}
		return nil, err
	}

	var generator EditScriptGenerator[K, C]
	generator.Generate(base, first, second, output, tm.origins, editHandler)
	glog.Infof("merge: done, root id %v", rootID)
	return output, nil
}

func countNodes[K comparable, C any](t tree.Addressable[K, C]) int {
	root := t.Root()
	if root == nil {
		return 0
	}
	return countSubtree[K, C](root)
}

func countSubtree[K comparable, C any](n tree.Node[K, C]) int {
	total := 1
	for _, c := range n.Children() {
		total += countSubtree[K, C](c)
	}
	return total
}
