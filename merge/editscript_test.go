package merge

import (
	"testing"

	"github.com/hczhang/treesync/tree"
	"github.com/stretchr/testify/require"
)

// replayHandler applies each emitted edit directly onto a mutable tree,
// used to verify the edit-script faithfulness law: replaying the script on
// a fresh copy of base must reproduce the merged tree exactly.
type replayHandler struct {
	target *tree.MutableTree[string, string]
}

func (h *replayHandler) Insert(subtreeRoot tree.Node[string, string], parentID string, pos int, origin Origin) {
	h.insertSubtree(subtreeRoot, &parentID, pos)
}

func (h *replayHandler) insertSubtree(n tree.Node[string, string], parentID *string, pos int) {
	id := n.ID()
	if err := h.target.Insert(n.Content(), id, parentID, pos); err != nil {
		panic(err)
	}
	for i, c := range n.Children() {
		h.insertSubtree(c, &id, i)
	}
}

func (h *replayHandler) Delete(id string, origin Origin) {
	if err := h.target.Delete(id); err != nil {
		panic(err)
	}
}

func (h *replayHandler) Move(id string, parentID string, pos int, origin Origin) {
	if err := h.target.Move(id, parentID, pos); err != nil {
		panic(err)
	}
}

func (h *replayHandler) Update(id string, content string, origin Origin) {
	if err := h.target.Update(content, id); err != nil {
		panic(err)
	}
}

func copyTree(t *testing.T, src tree.Addressable[string, string]) *tree.MutableTree[string, string] {
	t.Helper()
	dst := tree.NewMutableTree[string, string]()
	root := src.Root()
	if root == nil {
		return dst
	}
	var copyNode func(n tree.Node[string, string], parentID *string)
	copyNode = func(n tree.Node[string, string], parentID *string) {
		id := n.ID()
		require.NoError(t, dst.Insert(n.Content(), id, parentID, tree.DefaultPos))
		for _, c := range n.Children() {
			copyNode(c, &id)
		}
	}
	copyNode(root, nil)
	return dst
}

func runMergeWithReplay(t *testing.T, baseSrc, firstSrc, secondSrc string) (merged, replayed string) {
	t.Helper()
	base := parseTree(t, baseSrc)
	first := parseTree(t, firstSrc)
	second := parseTree(t, secondSrc)

	replayTarget := copyTree(t, base)
	handler := &replayHandler{target: replayTarget}

	mergedTree, err := Merge[string, string](base, first, second, stringMerger(), FailFastConflictHandler[string, string]{}, handler)
	require.NoError(t, err)

	return lispNotation(t, mergedTree), lispNotation(t, replayTarget)
}

func TestEditScriptReplayFaithfulness(t *testing.T) {
	cases := []struct {
		base, first, second string
	}{
		{"a (b c)", "a (b c j)", "a (i b c)"},
		{"r (a (b) c)", "r (a c)", "r (a (b))"},
		{"r (a (b) c)", "R (a (b) c)", "r (a (b) C)"},
		{"r (a (b d) c)", "r (a (d b) c)", "r (c a (b d))"},
		{"a (b (k (l (m n) d)))", "a", "a (b (d))"},
	}
	for _, c := range cases {
		merged, replayed := runMergeWithReplay(t, c.base, c.first, c.second)
		require.Equal(t, merged, replayed, "replay of base %q against first %q / second %q", c.base, c.first, c.second)
	}
}

func TestEditScriptInsertAndDelete(t *testing.T) {
	_, replayed := runMergeWithReplay(t, "a (b c d)", "a (i b d)", "a (i b d)")
	require.Equal(t, "a (i b d)", replayed)
}

func TestEditScriptMoveAcrossParents(t *testing.T) {
	_, replayed := runMergeWithReplay(t, "a (g (b c d) h (e f))", "a (g (b d) h (e c f))", "a (g (b c d) h (e f))")
	require.Equal(t, "a (g (b d) h (e c f))", replayed)
}
