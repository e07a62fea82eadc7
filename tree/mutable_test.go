package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *MutableTree[string, string] {
	t.Helper()
	tr := NewMutableTree[string, string]()
	require.NoError(t, tr.Insert("r", "r", nil, DefaultPos))
	require.NoError(t, tr.Insert("a", "a", strp("r"), DefaultPos))
	require.NoError(t, tr.Insert("b", "b", strp("a"), DefaultPos))
	require.NoError(t, tr.Insert("c", "c", strp("r"), DefaultPos))
	return tr
}

func strp(s string) *string { return &s }

func childIDs(t *testing.T, tr Addressable[string, string], parent string) []string {
	t.Helper()
	n, ok := tr.Lookup(parent)
	require.True(t, ok)
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.ID())
	}
	return out
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	tr := buildSample(t)
	before := childIDs(t, tr, "r")

	require.NoError(t, tr.Insert("d", "d", strp("r"), 1))
	require.NoError(t, tr.Delete("d"))

	require.Equal(t, before, childIDs(t, tr, "r"))
	_, ok := tr.Lookup("d")
	require.False(t, ok)
}

func TestDeletePurgesDescendants(t *testing.T) {
	tr := buildSample(t)
	require.NoError(t, tr.Delete("a"))

	_, ok := tr.Lookup("a")
	require.False(t, ok)
	_, ok = tr.Lookup("b")
	require.False(t, ok, "deleting a subtree must purge descendants from the index")
	require.Equal(t, []string{"c"}, childIDs(t, tr, "r"))
}

func TestMoveSameParentIsNoOpAtOwnPosition(t *testing.T) {
	tr := buildSample(t)
	before := childIDs(t, tr, "r")

	pos := 0
	for i, cid := range before {
		if cid == "a" {
			pos = i
		}
	}
	require.NoError(t, tr.Move("a", "r", pos))
	require.Equal(t, before, childIDs(t, tr, "r"))
}

func TestMoveThenMoveBackRestores(t *testing.T) {
	tr := buildSample(t)
	before := childIDs(t, tr, "r")

	require.NoError(t, tr.Move("b", "r", 0))
	require.NoError(t, tr.Move("b", "a", 0))

	require.Equal(t, before, childIDs(t, tr, "r"))
	require.Equal(t, []string{"b"}, childIDs(t, tr, "a"))
}

func TestMoveCycleDetectionLeavesTreeUnchanged(t *testing.T) {
	tr := buildSample(t)
	beforeR := childIDs(t, tr, "r")
	beforeA := childIDs(t, tr, "a")

	err := tr.Move("a", "b", DefaultPos)
	require.Error(t, err)
	var invalidMove *InvalidMoveError
	require.ErrorAs(t, err, &invalidMove)

	require.Equal(t, beforeR, childIDs(t, tr, "r"))
	require.Equal(t, beforeA, childIDs(t, tr, "a"))
}

func TestMoveRootFails(t *testing.T) {
	tr := buildSample(t)
	err := tr.Move("r", "a", DefaultPos)
	require.Error(t, err)
}

func TestLookupMissing(t *testing.T) {
	tr := buildSample(t)
	_, ok := tr.Lookup("zzz")
	require.False(t, ok)
}

func TestParentID(t *testing.T) {
	tr := buildSample(t)
	parent, ok, err := tr.ParentID("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", parent)

	_, ok, err = tr.ParentID("r")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = tr.ParentID("nope")
	require.Error(t, err)
}

func TestDuplicateInsert(t *testing.T) {
	tr := buildSample(t)
	err := tr.Insert("dup", "a", strp("r"), DefaultPos)
	require.Error(t, err)
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
}
