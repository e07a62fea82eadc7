package merge

import (
	"fmt"

	"github.com/hczhang/treesync/tree"
)

// treeMerger holds the state shared across one whole merge call: the
// three read-only input trees, the pluggable content merger and conflict
// handler, the output tree under construction, the cycle-detection set of
// already-emitted ids, and the origin annotations consumed by
// EditScriptGenerator afterward.
type treeMerger[K comparable, C any] struct {
	base, first, second tree.Addressable[K, C]
	nodeMerger           NodeMerger[K, C]
	conflictHandler      ConflictHandler[K, C]
	output               *tree.MutableTree[K, C]
	emitted              map[K]bool
	origins              *origins[K]
	trace                *MergeTrace
}

// contentNode is a minimal tree.Node[K, C] carrying only id and content,
// used to hand a freshly merged value to the output tree without needing
// a real backing node (children are attached separately by recursion).
type contentNode[K comparable, C any] struct {
	id      K
	content C
}

func (n contentNode[K, C]) ID() K                    { return n.id }
func (n contentNode[K, C]) Content() C                { return n.content }
func (n contentNode[K, C]) Children() []tree.Node[K, C] { return nil }

// checkParentState validates spec §4.4's "parent-state pre-check": the
// only legal recursion-entry states are all-present (a surviving parent),
// exactly one branch present with the other two absent (the parent itself
// was inserted wholesale by that branch), or both branches present with
// base absent (the same id inserted by both branches). Any other
// combination indicates a broken invariant upstream.
func checkParentState[K comparable, C any](pb, p1, p2 mnode[K, C]) {
	bReal, fReal, sReal := pb.kind == kindReal, p1.kind == kindReal, p2.kind == kindReal
	switch {
	case bReal && fReal && sReal:
	case !bReal && fReal && !sReal:
	case !bReal && !fReal && sReal:
	case !bReal && fReal && sReal:
	default:
		panic(internalError{msg: "illegal parent recursion state"})
	}
}

// step implements the per-step decision table (§4.4). It returns the
// resolved (base, first, second) view of the current position, or
// skip=true if a conflict handler resolved the position in place and the
// caller should simply continue to the next step without emitting
// anything for this one.
func (m *treeMerger[K, C]) step(cb, c1, c2 *cursor[K, C], n0, n1, n2 mnode[K, C]) (b, f, s mnode[K, C], skip bool, err error) {
	if sameID(n1, n2) {
		if !sameID(n1, n0) {
			if n1.kind == kindReal {
				m.origins.setReorder(n1.real.ID(), OriginBoth)
			}
			n0 = cb.seek(n1)
		}
		return n0, n1, n2, false, nil
	}
	if !sameID(n1, n0) && !sameID(n2, n0) {
		if !n1.isSentinel() && !n2.isSentinel() && !hasNode(m.base, n1) && !hasNode(m.base, n2) {
			if err := m.conflictHandler.CollidingNode(n1.real, n2.real, &Cursor[K, C]{c1}, &Cursor[K, C]{c2}); err != nil {
				return mnode[K, C]{}, mnode[K, C]{}, mnode[K, C]{}, false, err
			}
			return mnode[K, C]{}, mnode[K, C]{}, mnode[K, C]{}, true, nil
		}
		var bn, fn, sn tree.Node[K, C]
		if n0.kind == kindReal {
			bn = n0.real
		}
		if n1.kind == kindReal {
			fn = n1.real
		}
		if n2.kind == kindReal {
			sn = n2.real
		}
		if err := m.conflictHandler.ConflictingPosition(bn, fn, sn, &Cursor[K, C]{cb}, &Cursor[K, C]{c1}, &Cursor[K, C]{c2}); err != nil {
			return mnode[K, C]{}, mnode[K, C]{}, mnode[K, C]{}, false, err
		}
		return mnode[K, C]{}, mnode[K, C]{}, mnode[K, C]{}, true, nil
	}
	if !sameID(n1, n0) {
		if n1.kind == kindReal {
			m.origins.setReorder(n1.real.ID(), OriginFirst)
		}
		n0 = cb.seek(n1)
		n2 = c2.seek(n1)
		return n0, n1, n2, false, nil
	}
	if n2.kind == kindReal {
		m.origins.setReorder(n2.real.ID(), OriginSecond)
	}
	n0 = cb.seek(n2)
	n1 = c1.seek(n2)
	return n0, n1, n2, false, nil
}

// mergeNodeContent runs the ordinary three-way content merge (the "- - -"
// deletion-state table row), falling back to the conflict handler's
// ConflictingContent hook when the NodeMerger itself cannot reconcile.
func (m *treeMerger[K, C]) mergeNodeContent(id K, baseC, firstC, secondC C) (C, Origin, error) {
	merged, err := m.nodeMerger.MergeContent(id, baseC, firstC, secondC)
	if err != nil {
		if _, ok := err.(*ContentConflictError); !ok {
			var zero C
			return zero, OriginNone, err
		}
		resolved, herr := m.conflictHandler.ConflictingContent(id, baseC, firstC, secondC)
		if herr != nil {
			var zero C
			return zero, OriginNone, herr
		}
		merged = resolved
	}
	baseEqFirst := m.nodeMerger.NodeEquals(baseC, firstC)
	baseEqSecond := m.nodeMerger.NodeEquals(baseC, secondC)
	switch {
	case baseEqFirst && baseEqSecond:
		return merged, OriginNone, nil
	case baseEqFirst:
		return merged, OriginSecond, nil
	case baseEqSecond:
		return merged, OriginFirst, nil
	default:
		return merged, OriginBoth, nil
	}
}

// mergeNode implements the node-merge deletion-state table (§4.4). It
// returns the merged node (kindDeletia meaning "nothing to emit": a
// concurrent delete), and the insert/update origins to record.
func (m *treeMerger[K, C]) mergeNode(b, f, s mnode[K, C]) (mnode[K, C], Origin, Origin, error) {
	bReal, fReal, sReal := b.kind == kindReal, f.kind == kindReal, s.kind == kindReal
	m.trace.step(fmt.Sprintf("mergeNode: base=%v first=%v second=%v", bReal, fReal, sReal))
	switch {
	case bReal && fReal && sReal:
		id := b.real.ID()
		content, updateOrigin, err := m.mergeNodeContent(id, b.real.Content(), f.real.Content(), s.real.Content())
		if err != nil {
			return mnode[K, C]{}, OriginNone, OriginNone, err
		}
		return realNode[K, C](contentNode[K, C]{id: id, content: content}), OriginNone, updateOrigin, nil

	case !bReal && fReal && !sReal:
		id := f.real.ID()
		return realNode[K, C](contentNode[K, C]{id: id, content: f.real.Content()}), OriginFirst, OriginNone, nil

	case !bReal && !fReal && sReal:
		id := s.real.ID()
		return realNode[K, C](contentNode[K, C]{id: id, content: s.real.Content()}), OriginSecond, OriginNone, nil

	case !bReal && fReal && sReal:
		id := f.real.ID()
		content := f.real.Content()
		if !m.nodeMerger.NodeEquals(f.real.Content(), s.real.Content()) {
			reconciled, err := m.conflictHandler.CollidingContent(id, f.real.Content(), s.real.Content())
			if err != nil {
				return mnode[K, C]{}, OriginNone, OriginNone, err
			}
			content = reconciled
		}
		return realNode[K, C](contentNode[K, C]{id: id, content: content}), OriginBoth, OriginNone, nil

	case bReal && !fReal && sReal:
		return mnode[K, C]{}, OriginNone, OriginNone, &StructuralConflictError{Kind: DeleteMove, ID: b.real.ID(), Detail: "deleted in first, still present in second"}

	case bReal && fReal && !sReal:
		return mnode[K, C]{}, OriginNone, OriginNone, &StructuralConflictError{Kind: DeleteMove, ID: b.real.ID(), Detail: "deleted in second, still present in first"}

	case bReal && !fReal && !sReal:
		return deletia[K, C](), OriginNone, OriginNone, nil

	default:
		panic(internalError{msg: "node-merge reached with no present side"})
	}
}

// mergeChildren walks the synchronized cursors over (pb, p1, p2)'s child
// lists, emitting merged nodes into the output tree under outputParentID
// and recursing into each one's own children, then runs the post-
// child-list validations (§4.4).
func (m *treeMerger[K, C]) mergeChildren(outputParentID K, pb, p1, p2 mnode[K, C]) error {
	checkParentState(pb, p1, p2)
	m.trace.enter()
	defer m.trace.exit()

	cb := newCursor[K, C](pb)
	c1 := newCursor[K, C](p1)
	c2 := newCursor[K, C](p2)
	pos := 0
	placed := make(map[K]bool)

	for {
		n0, n1, n2 := cb.next(), c1.next(), c2.next()
		m.trace.dumpStep("cursor step", n0, n1, n2)
		b, f, s, skip, err := m.step(cb, c1, c2, n0, n1, n2)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		bDone := cb.isDeletia || b.isEndOfSequence()
		fDone := c1.isDeletia || f.isEndOfSequence()
		sDone := c2.isDeletia || s.isEndOfSequence()
		if bDone && fDone && sDone {
			break
		}

		merged, insertOrigin, updateOrigin, err := m.mergeNode(b, f, s)
		if err != nil {
			return err
		}
		if merged.kind != kindReal {
			continue
		}
		id := merged.real.ID()
		if m.emitted[id] {
			return &StructuralConflictError{Kind: CyclicMerge, ID: id}
		}
		m.emitted[id] = true
		placed[id] = true

		if err := m.output.Insert(merged.real.Content(), id, &outputParentID, tree.DefaultPos); err != nil {
			return err
		}
		if insertOrigin != OriginNone {
			m.origins.setInsert(id, insertOrigin)
		}
		if updateOrigin != OriginNone {
			m.origins.setUpdate(id, updateOrigin)
		}
		pos++

		nextB, nextF, nextS := deletia[K, C](), deletia[K, C](), deletia[K, C]()
		if b.kind == kindReal {
			nextB = b
		}
		if f.kind == kindReal {
			nextF = f
		}
		if s.kind == kindReal {
			nextS = s
		}
		if err := m.mergeChildren(id, nextB, nextF, nextS); err != nil {
			return err
		}
	}

	if err := m.checkDeletedNodes(pb, p1, p2); err != nil {
		return err
	}
	return m.checkMissingInserts(pb, p1, p2, placed)
}

// checkDeletedNodes implements §4.4's deleted-node check: for each base
// child deleted from exactly one branch, its content in the surviving
// branch must equal base (unless the deleting branch still holds it under
// another parent), its position in the surviving
// branch must have the same immediate neighbors as in base, and none of
// its base descendants may have survived in the other branch unless that
// survival is a legitimate move (tracked elsewhere via origins) rather
// than a plain content change.
func (m *treeMerger[K, C]) checkDeletedNodes(pb, p1, p2 mnode[K, C]) error {
	if pb.kind != kindReal || p1.kind != kindReal || p2.kind != kindReal {
		return nil
	}
	baseChildren := pb.real.Children()
	firstChildren := p1.real.Children()
	secondChildren := p2.real.Children()
	firstIdx := idIndexOf(firstChildren)
	secondIdx := idIndexOf(secondChildren)

	for i, bc := range baseChildren {
		id := bc.ID()
		_, inFirst := firstIdx[id]
		_, inSecond := secondIdx[id]
		if inFirst == inSecond {
			continue
		}
		kept, deleting := secondChildren, m.first
		if inFirst {
			kept, deleting = firstChildren, m.second
		}
		if _, movedAway := deleting.Lookup(id); !movedAway {
			if k := kept[indexOfID(kept, id)]; !m.nodeMerger.NodeEquals(bc.Content(), k.Content()) {
				return &StructuralConflictError{Kind: DeleteChange, ID: id, Detail: "changed in one branch, deleted in the other"}
			}
		}
		if inFirst {
			if err := checkAdjacency(baseChildren, firstChildren, id, i); err != nil {
				return err
			}
			if err := m.checkDeletedSubtree(bc, m.second); err != nil {
				return err
			}
		} else {
			if err := checkAdjacency(baseChildren, secondChildren, id, i); err != nil {
				return err
			}
			if err := m.checkDeletedSubtree(bc, m.first); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *treeMerger[K, C]) checkDeletedSubtree(baseNode tree.Node[K, C], surviving tree.Addressable[K, C]) error {
	for _, child := range baseNode.Children() {
		id := child.ID()
		if survivingNode, ok := surviving.Lookup(id); ok {
			if m.origins.reorderOrigin(id) != OriginNone || m.origins.insertOrigin(id) != OriginNone {
				continue
			}
			if !m.nodeMerger.NodeEquals(child.Content(), survivingNode.Content()) {
				return &StructuralConflictError{Kind: DeleteChange, ID: id, Detail: "content changed under a deleted ancestor"}
			}
			return &StructuralConflictError{Kind: MovedOutOfDeletedSubtree, ID: id, Detail: "saved by move out of a deleted subtree without being recorded as a move"}
		}
		if err := m.checkDeletedSubtree(child, surviving); err != nil {
			return err
		}
	}
	return nil
}

func checkAdjacency[K comparable, C any](baseChildren, survivingChildren []tree.Node[K, C], id K, baseIdx int) error {
	predBase, okPredBase := idAt(baseChildren, baseIdx-1)
	succBase, okSuccBase := idAt(baseChildren, baseIdx+1)
	pos := indexOfID(survivingChildren, id)
	if pos < 0 {
		return nil
	}
	predSurv, okPredSurv := idAt(survivingChildren, pos-1)
	succSurv, okSuccSurv := idAt(survivingChildren, pos+1)
	predOK := (!okPredBase && !okPredSurv) || (okPredBase && okPredSurv && predBase == predSurv)
	succOK := (!okSuccBase && !okSuccSurv) || (okSuccBase && okSuccSurv && succBase == succSurv)
	if !predOK || !succOK {
		return &StructuralConflictError{Kind: DeleteMove, ID: id, Detail: "repositioned concurrently with deletion in the other branch"}
	}
	return nil
}

// checkMissingInserts implements §4.4's missing-insert check: every
// branch-only child (absent from base) placed at this position must have
// made it into the merged child list.
func (m *treeMerger[K, C]) checkMissingInserts(pb, p1, p2 mnode[K, C], placed map[K]bool) error {
	for _, side := range []mnode[K, C]{p1, p2} {
		if side.kind != kindReal {
			continue
		}
		for _, child := range side.real.Children() {
			id := child.ID()
			if _, inBase := m.base.Lookup(id); inBase {
				continue
			}
			if !placed[id] {
				return &StructuralConflictError{Kind: InsertedThenDeleted, ID: id, Detail: "inserted node was deleted"}
			}
		}
	}
	return nil
}

func idIndexOf[K comparable, C any](nodes []tree.Node[K, C]) map[K]int {
	m := make(map[K]int, len(nodes))
	for i, n := range nodes {
		m[n.ID()] = i
	}
	return m
}

func idAt[K comparable, C any](nodes []tree.Node[K, C], i int) (K, bool) {
	if i < 0 || i >= len(nodes) {
		var zero K
		return zero, false
	}
	return nodes[i].ID(), true
}

func indexOfID[K comparable, C any](nodes []tree.Node[K, C], id K) int {
	for i, n := range nodes {
		if n.ID() == id {
			return i
		}
	}
	return -1
}
