package htmlmerge

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/html"
)

// WellFormednessError reports one duplicate id found while checking a
// document, analogous to HtmlNodeMerger's ConflictException for repeated
// attributes but scoped to the whole-document id space instead of a
// single tag's attribute list.
type WellFormednessError struct {
	ID string
}

func (e *WellFormednessError) Error() string {
	return fmt.Sprintf("htmlmerge: duplicate id %q", e.ID)
}

// CheckWellFormed walks a document and reports every duplicate id
// attribute found, accumulating all of them via go-multierror rather than
// stopping at the first, since a caller fixing up a hand-edited document
// wants the whole list in one pass. A document with any element missing
// an id is not an error here -- that's the matcher's job to fill in, per
// spec.md §6 -- but CheckWellFormed still needs a document where ids
// present are unique, since AssignCanonicalIDs (for the reference document)
// and the matcher (for a partially-ided document against the reference)
// both assume that.
func CheckWellFormed(root *html.Node) error {
	seen := make(map[string]bool)
	var result *multierror.Error
	walkElements(root, func(n *html.Node) {
		id, ok := elementID(n)
		if !ok {
			return
		}
		if seen[id] {
			result = multierror.Append(result, &WellFormednessError{ID: id})
			return
		}
		seen[id] = true
	})
	return result.ErrorOrNil()
}

// HasUnidentifiedElements reports whether any element in the document is
// missing an id attribute, the trigger condition for running the matcher
// against this document per spec.md §6.
func HasUnidentifiedElements(root *html.Node) bool {
	found := false
	walkElements(root, func(n *html.Node) {
		if _, ok := elementID(n); !ok {
			found = true
		}
	})
	return found
}

func walkElements(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, visit)
	}
}
