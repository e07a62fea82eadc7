package htmlmerge

import (
	"context"
	"strings"
	"testing"

	"github.com/hczhang/treesync/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestMergeConcurrentDisjointTagChanges(t *testing.T) {
	base := `<html id="r"><body id="b"><p id="p1" class="foo">hello</p></body></html>`
	first := `<html id="r"><body id="b"><p id="p1" class="bar">hello</p></body></html>`
	second := `<html id="r"><body id="b"><i id="p1" class="foo">hello</i></body></html>`

	var out strings.Builder
	err := Merge(context.Background(), strings.NewReader(base), strings.NewReader(first), strings.NewReader(second), &out)
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "<i")
	assert.Contains(t, rendered, `class="bar"`)
	assert.NotContains(t, rendered, GeneratedIDPrefix)
}

func TestMergeConflictingAttributeUpdateReturnsConflictError(t *testing.T) {
	base := `<html id="r"><body id="b"><p id="p1" class="foo">hello</p></body></html>`
	first := `<html id="r"><body id="b"><p id="p1" class="bar">hello</p></body></html>`
	second := `<html id="r"><body id="b"><p id="p1" class="baz">hello</p></body></html>`

	var out strings.Builder
	err := Merge(context.Background(), strings.NewReader(base), strings.NewReader(first), strings.NewReader(second), &out)
	require.Error(t, err)
	var conflict *merge.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestLoadDocumentsImputesBaseIDsFromFirstWhenBaseIsUnidentified(t *testing.T) {
	base := `<html><body><p>hello world</p></body></html>`
	first := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`
	second := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`

	baseDoc, firstDoc, secondDoc, err := loadDocuments(strings.NewReader(base), strings.NewReader(first), strings.NewReader(second))
	require.NoError(t, err)

	var baseParagraph *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			baseParagraph = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(baseDoc.Root)
	require.NotNil(t, baseParagraph)
	assert.Equal(t, "p1", baseDoc.IDs[baseParagraph], "base's paragraph should inherit first's id")
	require.NotNil(t, firstDoc)
	require.NotNil(t, secondDoc)
}

func TestMergeRepairsUnidentifiedBaseDocument(t *testing.T) {
	base := `<html><body><p>hello world</p></body></html>`
	first := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`
	second := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`

	var out strings.Builder
	err := Merge(context.Background(), strings.NewReader(base), strings.NewReader(first), strings.NewReader(second), &out)
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "hello world")
	assert.NotContains(t, rendered, GeneratedIDPrefix)
}

func TestMergeImputesIDsForUnidentifiedBranch(t *testing.T) {
	base := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`
	first := `<html><body><p>hello world</p><p>a new paragraph</p></body></html>`
	second := `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`

	var out strings.Builder
	err := Merge(context.Background(), strings.NewReader(base), strings.NewReader(first), strings.NewReader(second), &out)
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "a new paragraph")
	assert.NotContains(t, rendered, GeneratedIDPrefix)
}
