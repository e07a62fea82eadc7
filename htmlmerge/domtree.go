package htmlmerge

import (
	"fmt"

	"github.com/hczhang/treesync/tree"
	"golang.org/x/net/html"
)

// idAttr is the attribute well-formedness checking treats as an element's
// tree id, per spec.md §6's DOM collaborator contract.
const idAttr = "id"

// GeneratedIDPrefix marks ids synthesized for nodes the matcher could not
// align to anything in the base document. Serialization strips attributes
// carrying this prefix so generated scaffolding never leaks into the
// merged output.
const GeneratedIDPrefix = "_gen:"

// elementID returns an element's id attribute value, and whether it was
// present and non-empty.
func elementID(n *html.Node) (string, bool) {
	v, ok := attr(n.Attr, idAttr)
	return v, ok && v != ""
}

// NodeIDs maps *html.Node pointers to the tree ids BuildTree should use for
// them. AssignCanonicalIDs produces one for a reference document (elements
// keep their own id attribute where present; everything else gets a
// positional id scoped under its parent); ImputeIDs produces one for
// another document by aligning it against a reference document's ids.
// loadDocuments assigns canonical ids to all three documents when every
// element already has an id, and otherwise assigns canonical ids to first
// and imputes base against first and second against base.
type NodeIDs map[*html.Node]string

// AssignCanonicalIDs walks a document already checked by CheckWellFormed
// (no duplicate id attributes) and assigns ids to every mergeable node,
// including the text and comment nodes an HTML id attribute can't reach,
// and including elements the HTML5 parser inserts implicitly (like a
// missing <head>) that never carry an author-written id. This document's
// ids become the canonical id space the other two branches are aligned
// against.
func AssignCanonicalIDs(root *html.Node) NodeIDs {
	ids := make(NodeIDs)
	assignCanonical(root, "root", ids)
	return ids
}

func assignCanonical(n *html.Node, syntheticID string, ids NodeIDs) {
	id := syntheticID
	if n.Type == html.ElementNode {
		if v, ok := elementID(n); ok {
			id = v
		}
	}
	ids[n] = id
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !mergeable(c) {
			continue
		}
		assignCanonical(c, fmt.Sprintf("%s:%d", id, i), ids)
		i++
	}
}

// BuildTree walks an *html.Node document and produces the
// tree.MutableTree[string, HtmlContent] that merge.Merge operates on,
// using ids to assign each mergeable node its tree id. A document node is
// not itself part of the tree: the tree is rooted at its first element
// child (the <html> element).
func BuildTree(root *html.Node, ids NodeIDs) (*tree.MutableTree[string, HtmlContent], error) {
	if root.Type == html.DocumentNode {
		doc := root
		root = nil
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				root = c
				break
			}
		}
		if root == nil {
			return nil, fmt.Errorf("htmlmerge: document has no root element")
		}
	}
	out := tree.NewMutableTree[string, HtmlContent]()
	if _, err := insertSubtree(out, root, nil, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func insertSubtree(out *tree.MutableTree[string, HtmlContent], n *html.Node, parentID *string, ids NodeIDs) (string, error) {
	id, ok := ids[n]
	if !ok {
		return "", fmt.Errorf("htmlmerge: no id assigned to node %v", n)
	}
	content, err := contentOf(n)
	if err != nil {
		return "", err
	}
	if err := out.Insert(content, id, parentID, tree.DefaultPos); err != nil {
		return "", err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !mergeable(c) {
			continue
		}
		if _, err := insertSubtree(out, c, &id, ids); err != nil {
			return "", err
		}
	}
	return id, nil
}

// mergeable reports whether a DOM node participates in the tree merge at
// all; document and doctype nodes do not: BuildTree roots the tree at the
// <html> element, and a doctype is not carried into the merged output.
func mergeable(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode, html.TextNode, html.CommentNode:
		return true
	default:
		return false
	}
}

func contentOf(n *html.Node) (HtmlContent, error) {
	switch n.Type {
	case html.ElementNode:
		attrs := make([]html.Attribute, 0, len(n.Attr))
		for _, a := range n.Attr {
			if a.Key == idAttr {
				continue
			}
			attrs = append(attrs, a)
		}
		return HtmlContent{Kind: KindElement, Tag: n.Data, Attrs: attrs}, nil
	case html.TextNode:
		return HtmlContent{Kind: KindText, Text: n.Data}, nil
	case html.CommentNode:
		return HtmlContent{Kind: KindComment, Text: n.Data}, nil
	default:
		return HtmlContent{}, fmt.Errorf("htmlmerge: unsupported node type %v", n.Type)
	}
}
