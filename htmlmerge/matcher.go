package htmlmerge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hczhang/treesync/textalign"
	"golang.org/x/net/html"
)

// domItem adapts a flattened DOM node to textalign.Item, generalizing
// TextAlignmentTreeMatcher's detagged-text alignment (which aligned on
// text content alone, with tag positions riding along for the ride) to
// align directly on the mergeable node sequence: elements contribute their
// tag+attribute signature, text/comment nodes contribute their literal
// value.
type domItem struct {
	node *html.Node
}

func (d domItem) Signature() string {
	switch d.node.Type {
	case html.ElementNode:
		var b strings.Builder
		b.WriteString("E:")
		b.WriteString(d.node.Data)
		for _, a := range d.node.Attr {
			if a.Key == idAttr {
				continue
			}
			b.WriteString(";")
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(a.Val)
		}
		return b.String()
	case html.TextNode:
		return "T:" + d.node.Data
	case html.CommentNode:
		return "C:" + d.node.Data
	default:
		return ""
	}
}

func (d domItem) Equal(other textalign.Item) bool {
	o, ok := other.(domItem)
	if !ok {
		return false
	}
	ac, err := contentOf(d.node)
	if err != nil {
		return false
	}
	bc, err := contentOf(o.node)
	if err != nil {
		return false
	}
	return ac.Equal(bc)
}

// flatten walks a document in depth-first document order, collecting one
// domItem per mergeable node -- the same traversal order BuildTree uses,
// so positions line up between the two.
func flatten(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		out = append(out, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if mergeable(c) {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

func toItems(nodes []*html.Node) []textalign.Item {
	out := make([]textalign.Item, len(nodes))
	for i, n := range nodes {
		out[i] = domItem{node: n}
	}
	return out
}

// ImputeIDs assigns tree ids to every mergeable node of changed by aligning
// it against the base document's already-canonical ids: a changed node
// matched to a base node inherits that base node's id, and a changed node
// with no match gets a freshly generated id carrying GeneratedIDPrefix, per
// spec.md §6/§9. An element of changed that already carries a non-empty id
// attribute keeps that id. This is the Go analogue of
// TextAlignmentTreeMatcher.match(), generalized from the original's
// character-level diff_match_patch alignment to textalign's item-sequence
// alignment, so the same algorithm handles text, comment, and (unlike the
// original, which only assigned element ids) element nodes uniformly.
func ImputeIDs(baseRoot *html.Node, baseIDs NodeIDs, changedRoot *html.Node) (NodeIDs, error) {
	baseNodes := flatten(baseRoot)
	changedNodes := flatten(changedRoot)

	matches := textalign.Align(toItems(baseNodes), toItems(changedNodes), textalign.DefaultConfig())

	matchedChanged := make(map[int]int, len(matches)) // changed index -> base index
	for _, m := range matches {
		matchedChanged[m.BIndex] = m.AIndex
	}

	ids := make(NodeIDs, len(changedNodes))
	for i, n := range changedNodes {
		if n.Type == html.ElementNode {
			if existing, ok := elementID(n); ok {
				ids[n] = existing
				continue
			}
		}
		if baseIdx, ok := matchedChanged[i]; ok {
			baseID, ok := baseIDs[baseNodes[baseIdx]]
			if !ok {
				return nil, fmt.Errorf("htmlmerge: base node at flattened index %d has no canonical id", baseIdx)
			}
			ids[n] = baseID
			continue
		}
		ids[n] = GeneratedIDPrefix + uuid.NewString()
	}
	return ids, nil
}
