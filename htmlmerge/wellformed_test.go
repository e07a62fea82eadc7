package htmlmerge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return root
}

func TestCheckWellFormedAcceptsUniqueIDs(t *testing.T) {
	root := mustParse(t, `<html id="r"><body id="b"><p id="p1">hi</p></body></html>`)
	assert.NoError(t, CheckWellFormed(root))
}

func TestCheckWellFormedRejectsDuplicateIDs(t *testing.T) {
	root := mustParse(t, `<html id="r"><body id="b"><p id="p1">a</p><p id="p1">b</p></body></html>`)
	err := CheckWellFormed(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1")
}

func TestCheckWellFormedAllowsMissingIDs(t *testing.T) {
	root := mustParse(t, `<html><body><p>hi</p></body></html>`)
	assert.NoError(t, CheckWellFormed(root))
}

func TestHasUnidentifiedElements(t *testing.T) {
	withIDs := mustParse(t, `<html id="r"><head id="h"></head><body id="b"></body></html>`)
	assert.False(t, HasUnidentifiedElements(withIDs))

	partial := mustParse(t, `<html id="r"><body></body></html>`)
	assert.True(t, HasUnidentifiedElements(partial))
}
