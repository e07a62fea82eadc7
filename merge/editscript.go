package merge

import "github.com/hczhang/treesync/tree"

// EditHandler receives the edit-script operations derived from a completed
// merge (spec §4.5). Implementations must accept calls on the calling
// goroutine and in the order EditScriptGenerator emits them.
type EditHandler[K comparable, C any] interface {
	// Insert adds subtreeRoot (together with its entire descendant
	// subtree) under parentID at pos. The subtree is a read-only detached
	// view; the handler is responsible for recursively inserting its
	// children into whatever tree it is building.
	Insert(subtreeRoot tree.Node[K, C], parentID K, pos int, origin Origin)

	// Delete removes the subtree rooted at id. Internal deletes of id's
	// descendants are implicit; the handler must not expect separate
	// Delete calls for them.
	Delete(id K, origin Origin)

	// Move reparents/repositions the existing node id.
	Move(id K, parentID K, pos int, origin Origin)

	// Update replaces the content stored at id.
	Update(id K, content C, origin Origin)
}

// EditScriptGenerator derives insert/delete/move/update operations from a
// base tree, the two branch trees (needed only to attribute delete
// origin), the completed merged tree, and the origin annotations the
// TreeMerger recorded while producing it.
type EditScriptGenerator[K comparable, C any] struct{}

// Generate walks the merged tree top-down to emit updates/inserts/moves
// (satisfying §4.5 rule 1: a parent's edits, including its own insert, are
// emitted before its children's), then walks the base tree to emit
// deletes after every move/insert, which satisfies rule 2 (delayed
// delete) for free: no delete can ever precede a move, because every
// delete is emitted only after the entire insert/move/update pass
// completes.
func (EditScriptGenerator[K, C]) Generate(
	base, first, second, merged tree.Addressable[K, C],
	o *origins[K],
	handler EditHandler[K, C],
) {
	if root := merged.Root(); root != nil {
		if origin := o.updateOrigin(root.ID()); origin != OriginNone {
			handler.Update(root.ID(), root.Content(), origin)
		}
		emitSubtree(base, root, o, handler)
	}
	if root := base.Root(); root != nil {
		emitDeletes(base, first, second, merged, root, handler)
	}
}

func emitSubtree[K comparable, C any](base tree.Addressable[K, C], parent tree.Node[K, C], o *origins[K], handler EditHandler[K, C]) {
	children := parent.Children()
	for pos, child := range children {
		id := child.ID()
		if origin := o.updateOrigin(id); origin != OriginNone {
			handler.Update(id, child.Content(), origin)
		}
		if _, inBase := base.Lookup(id); !inBase {
			if origin := o.insertOrigin(id); origin != OriginNone {
				handler.Insert(child, parent.ID(), pos, origin)
			}
			continue // the whole new subtree is bundled into Insert
		}
		baseParentID, hasBaseParent, _ := base.ParentID(id)
		moved := !hasBaseParent || baseParentID != parent.ID()
		if !moved {
			moved = !samePositionModuloShifts(base, parent.ID(), id, children)
		}
		if moved {
			handler.Move(id, parent.ID(), pos, o.reorderOrigin(id))
		}
		emitSubtree(base, child, o, handler)
	}
}

// samePositionModuloShifts reports whether id's rank among the surviving
// same-parent siblings (those present in base AND kept under parentID in
// the merged list) matches its rank in base -- i.e. its new position is
// fully explained by siblings being inserted or deleted around it, not by
// an actual reordering.
func samePositionModuloShifts[K comparable, C any](base tree.Addressable[K, C], parentID K, id K, mergedChildren []tree.Node[K, C]) bool {
	baseParent, ok := base.Lookup(parentID)
	if !ok {
		return false
	}
	baseChildren := baseParent.Children()

	mergedSet := make(map[K]bool, len(mergedChildren))
	for _, m := range mergedChildren {
		mergedSet[m.ID()] = true
	}
	baseRank := -1
	for rank, b := range survivingRankOrder(baseChildren, mergedSet) {
		if b == id {
			baseRank = rank
		}
	}

	baseSet := make(map[K]bool, len(baseChildren))
	for _, b := range baseChildren {
		baseSet[b.ID()] = true
	}
	mergedRank := -1
	for rank, m := range survivingRankOrder(mergedChildren, baseSet) {
		if m == id {
			mergedRank = rank
		}
	}

	return baseRank >= 0 && baseRank == mergedRank
}

func survivingRankOrder[K comparable, C any](nodes []tree.Node[K, C], keep map[K]bool) []K {
	out := make([]K, 0, len(nodes))
	for _, n := range nodes {
		if keep[n.ID()] {
			out = append(out, n.ID())
		}
	}
	return out
}

func emitDeletes[K comparable, C any](base, first, second, merged tree.Addressable[K, C], node tree.Node[K, C], handler EditHandler[K, C]) {
	for _, child := range node.Children() {
		id := child.ID()
		if _, stillPresent := merged.Lookup(id); stillPresent {
			emitDeletes(base, first, second, merged, child, handler)
			continue
		}
		handler.Delete(id, deleteOriginOf(first, second, id))
	}
}

func deleteOriginOf[K comparable, C any](first, second tree.Addressable[K, C], id K) Origin {
	_, inFirst := first.Lookup(id)
	_, inSecond := second.Lookup(id)
	switch {
	case !inFirst && !inSecond:
		return OriginBoth
	case !inFirst:
		return OriginFirst
	case !inSecond:
		return OriginSecond
	default:
		return OriginNone
	}
}
