// Package htmlmerge instantiates the merge engine for HTML documents: it
// wraps golang.org/x/net/html trees as tree.Node[string, HtmlContent],
// imputes ids for elements that arrive without one, and supplies the
// element/text NodeMerger that spec.md's §4.2 describes in the abstract.
package htmlmerge

import "golang.org/x/net/html"

// NodeKind distinguishes the handful of DOM node kinds this package
// merges, mirroring HtmlNodeMerger's dispatch on Element/Text/Comment.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindComment
)

// HtmlContent is the opaque content value carried by tree.Node[string,
// HtmlContent] nodes: for an element, the tag name and attribute list; for
// text/comment nodes, the literal string value.
type HtmlContent struct {
	Kind  NodeKind
	Tag   string
	Attrs []html.Attribute
	Text  string
}

// Equal mirrors HtmlNodeMerger.HtmlNodeComparator: two contents are equal
// if they're the same kind, have the same tag/text, and the same
// attribute set regardless of order.
func (c HtmlContent) Equal(o HtmlContent) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindElement:
		return c.Tag == o.Tag && sameAttrs(c.Attrs, o.Attrs)
	case KindText, KindComment:
		return c.Text == o.Text
	default:
		return false
	}
}

func sameAttrs(a, b []html.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	bv := make(map[string]string, len(b))
	for _, at := range b {
		bv[at.Key] = at.Val
	}
	for _, at := range a {
		v, ok := bv[at.Key]
		if !ok || v != at.Val {
			return false
		}
	}
	return true
}

func attr(attrs []html.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
