package htmlmerge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestImputeIDsMatchesUnchangedElements(t *testing.T) {
	base := mustParse(t, `<html id="r"><body id="b"><p id="p1">hello world</p></body></html>`)
	baseIDs := AssignCanonicalIDs(base)

	changed := mustParse(t, `<html><body><p>hello world</p><p>a new paragraph</p></body></html>`)

	ids, err := ImputeIDs(base, baseIDs, changed)
	require.NoError(t, err)

	var paragraphs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			paragraphs = append(paragraphs, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(changed)
	require.Len(t, paragraphs, 2)

	assert.Equal(t, "p1", ids[paragraphs[0]], "unchanged paragraph should inherit base's id")
	assert.True(t, strings.HasPrefix(ids[paragraphs[1]], GeneratedIDPrefix), "new paragraph should get a generated id")
}
