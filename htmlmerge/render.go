package htmlmerge

import (
	"fmt"
	"strings"

	"github.com/hczhang/treesync/tree"
	"golang.org/x/net/html"
)

// renderMergedTree converts the generic merged tree.Node view back into a
// concrete *html.Node graph that golang.org/x/net/html.Render can
// serialize, reattaching the id attribute to elements -- except ids
// carrying GeneratedIDPrefix, which spec.md §6 says must not leak into the
// merged output.
func renderMergedTree(t tree.Mutable[string, HtmlContent]) (*html.Node, error) {
	root := t.Root()
	if root == nil {
		return nil, fmt.Errorf("htmlmerge: merged tree is empty")
	}
	return toHTMLNode(root)
}

func toHTMLNode(n tree.Node[string, HtmlContent]) (*html.Node, error) {
	c := n.Content()
	var out *html.Node
	switch c.Kind {
	case KindElement:
		attrs := append([]html.Attribute(nil), c.Attrs...)
		if id := n.ID(); !strings.HasPrefix(id, GeneratedIDPrefix) {
			attrs = append(attrs, html.Attribute{Key: idAttr, Val: id})
		}
		out = &html.Node{
			Type: html.ElementNode,
			Data: c.Tag,
			Attr: attrs,
		}
	case KindText:
		out = &html.Node{Type: html.TextNode, Data: c.Text}
	case KindComment:
		out = &html.Node{Type: html.CommentNode, Data: c.Text}
	default:
		return nil, fmt.Errorf("htmlmerge: unknown content kind for node %v", n.ID())
	}

	for _, child := range n.Children() {
		childNode, err := toHTMLNode(child)
		if err != nil {
			return nil, err
		}
		out.AppendChild(childNode)
	}
	return out, nil
}
