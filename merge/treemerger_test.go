package merge

import (
	"testing"

	"github.com/hczhang/treesync/tree"
	"github.com/stretchr/testify/require"
)

func stringMerger() NullMerger[string, string] {
	return NullMerger[string, string]{Equal: func(a, b string) bool { return a == b }}
}

func runMerge(t *testing.T, baseSrc, firstSrc, secondSrc string) (string, error) {
	t.Helper()
	base := parseTree(t, baseSrc)
	first := parseTree(t, firstSrc)
	second := parseTree(t, secondSrc)

	merged, err := Merge[string, string](base, first, second, stringMerger(), FailFastConflictHandler[string, string]{}, noopEditHandler{})
	if err != nil {
		return "", err
	}
	return lispNotation(t, merged), nil
}

type noopEditHandler struct{}

func (noopEditHandler) Insert(subtreeRoot tree.Node[string, string], parentID string, pos int, origin Origin) {
}
func (noopEditHandler) Delete(id string, origin Origin)                     {}
func (noopEditHandler) Move(id string, parentID string, pos int, origin Origin) {}
func (noopEditHandler) Update(id string, content string, origin Origin)     {}

func TestScenarioConcurrentInserts(t *testing.T) {
	out, err := runMerge(t, "a (b c)", "a (b c j)", "a (i b c)")
	require.NoError(t, err)
	require.Equal(t, "a (i b c j)", out)
}

func TestScenarioConcurrentDeletes(t *testing.T) {
	out, err := runMerge(t, "r (a (b) c)", "r (a c)", "r (a (b))")
	require.NoError(t, err)
	require.Equal(t, "r (a)", out)
}

func TestScenarioConcurrentUpdatesOnDisjointNodes(t *testing.T) {
	out, err := runMerge(t, "r (a (b) c)", "R (a (b) c)", "r (a (b) C)")
	require.NoError(t, err)
	require.Equal(t, "R (a (b) C)", out)
}

func TestScenarioConcurrentMoves(t *testing.T) {
	out, err := runMerge(t, "r (a (b d) c)", "r (a (d b) c)", "r (c a (b d))")
	require.NoError(t, err)
	require.Equal(t, "r (c a (d b))", out)
}

func TestScenarioUpdateDeleteConflict(t *testing.T) {
	_, err := runMerge(t, "r (a (b) c)", "r (c)", "r (A (b) c)")
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestScenarioDelayedDelete(t *testing.T) {
	out, err := runMerge(t, "a (b (k (l (m n) d)))", "a", "a (b (d))")
	require.NoError(t, err)
	require.Equal(t, "a (d)", out)
}

func TestCycleGuardDoesNotLoop(t *testing.T) {
	_, err := runMerge(t, "R (a (b (c (d))))", "R (a (c (b (d))))", "R (d (b (c (a))))")
	require.Error(t, err)
}

func TestIdentityLaw(t *testing.T) {
	out, err := runMerge(t, "a (b c)", "a (b c)", "a (b c)")
	require.NoError(t, err)
	require.Equal(t, "a (b c)", out)
}

func TestFirstSideIdentityLaw(t *testing.T) {
	out, err := runMerge(t, "a (b c)", "a (b c)", "a (i b c)")
	require.NoError(t, err)
	require.Equal(t, "a (i b c)", out)
}

func TestSymmetryLaw(t *testing.T) {
	out1, err1 := runMerge(t, "a (b c)", "a (b c j)", "a (i b c)")
	require.NoError(t, err1)
	out2, err2 := runMerge(t, "a (b c)", "a (i b c)", "a (b c j)")
	require.NoError(t, err2)
	require.Equal(t, out1, out2)
}

func TestConflictStability(t *testing.T) {
	_, err1 := runMerge(t, "r (a (b) c)", "r (c)", "r (A (b) c)")
	require.Error(t, err1)
	_, err2 := runMerge(t, "r (a (b) c)", "r (A (b) c)", "r (c)")
	require.Error(t, err2)
}
