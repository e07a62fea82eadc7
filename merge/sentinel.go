package merge

import "github.com/hczhang/treesync/tree"

// kind tags the internal Real | Deletia | StartOfSequence | EndOfSequence
// variant described in spec.md's design notes. Rather than reserving a
// magic id value that "cannot collide with input identifiers" (the
// original Java implementation's 128-random-bits trick, forced on it by a
// single polymorphic id type), we give sentinels their own tag so they can
// never be mistaken for a real, caller-supplied id of an arbitrary
// comparable type K.
type kind int

const (
	kindReal kind = iota
	kindDeletia
	kindStartOfSequence
	kindEndOfSequence
)

// mnode is a sentinel-or-real node as seen by the merge algorithm's
// internals. It is never exposed outside this package.
type mnode[K comparable, C any] struct {
	kind kind
	real tree.Node[K, C]
}

func realNode[K comparable, C any](n tree.Node[K, C]) mnode[K, C] {
	return mnode[K, C]{kind: kindReal, real: n}
}

func deletia[K comparable, C any]() mnode[K, C] {
	return mnode[K, C]{kind: kindDeletia}
}

func endOfSequence[K comparable, C any]() mnode[K, C] {
	return mnode[K, C]{kind: kindEndOfSequence}
}

func startOfSequence[K comparable, C any]() mnode[K, C] {
	return mnode[K, C]{kind: kindStartOfSequence}
}

func (n mnode[K, C]) isSentinel() bool { return n.kind != kindReal }

func (n mnode[K, C]) isDeletia() bool { return n.kind == kindDeletia }

func (n mnode[K, C]) isEndOfSequence() bool { return n.kind == kindEndOfSequence }

// sameID reports whether two positions refer to the same node: two real
// nodes with the same id, or the same sentinel kind.
func sameID[K comparable, C any](a, b mnode[K, C]) bool {
	if a.kind != kindReal || b.kind != kindReal {
		return a.kind == b.kind
	}
	return a.real.ID() == b.real.ID()
}

// notSentinel returns n's real payload, or an InternalError if n turns out
// to be a sentinel where the caller's invariant says it cannot be -- the Go
// analogue of the teacher's glog.Fatalf "this should never happen" asserts.
func notSentinel[K comparable, C any](n mnode[K, C]) tree.Node[K, C] {
	if n.kind != kindReal {
		panic(internalError{msg: "sentinel node not allowed here"})
	}
	return n.real
}

// hasNode reports whether n is a real node present (by id) in t. Sentinels
// are never present by definition.
func hasNode[K comparable, C any](t tree.Addressable[K, C], n mnode[K, C]) bool {
	if n.kind != kindReal {
		return false
	}
	_, ok := t.Lookup(n.real.ID())
	return ok
}

// childrenOf returns the children of n as mnodes, or nil for sentinel
// parents (which have no children by definition).
func childrenOf[K comparable, C any](n mnode[K, C]) []mnode[K, C] {
	if n.kind != kindReal {
		return nil
	}
	kids := n.real.Children()
	out := make([]mnode[K, C], len(kids))
	for i, k := range kids {
		out[i] = realNode[K, C](k)
	}
	return out
}
