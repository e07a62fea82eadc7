package merge

// NodeMerger is the pluggable three-way content merger (spec §4.2). K is
// the tree's id domain, used only for error context.
type NodeMerger[K comparable, C any] interface {
	// MergeContent reconciles base/first/second content for the same node.
	// It may be called even when no real merge is needed -- two or three
	// sides equal is a valid input. Returns ContentConflictError when both
	// sides diverge from base and cannot be reconciled.
	MergeContent(id K, base, first, second C) (C, error)

	// NodeEquals is the equality the algorithm uses to decide "changed vs
	// unchanged"; it is not required to be Go's ==, since C is opaque.
	NodeEquals(a, b C) bool
}

// NullMerger is the reference "no-op" content merger: if both branches
// equal base, keep base; if exactly one side differs, take that side; if
// both differ but agree with each other, take either; otherwise conflict.
// Equality is supplied by the caller since C is opaque content.
type NullMerger[K comparable, C any] struct {
	Equal func(a, b C) bool
}

func (m NullMerger[K, C]) NodeEquals(a, b C) bool { return m.Equal(a, b) }

func (m NullMerger[K, C]) MergeContent(id K, base, first, second C) (C, error) {
	baseEqFirst := m.Equal(base, first)
	baseEqSecond := m.Equal(base, second)
	switch {
	case baseEqFirst && baseEqSecond:
		return base, nil
	case baseEqFirst:
		return second, nil
	case baseEqSecond:
		return first, nil
	case m.Equal(first, second):
		return first, nil
	default:
		var zero C
		return zero, &ContentConflictError{ID: id}
	}
}
