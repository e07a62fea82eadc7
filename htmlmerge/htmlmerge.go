package htmlmerge

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/hczhang/treesync/merge"
	"github.com/hczhang/treesync/tree"
	"golang.org/x/net/html"
)

// Document pairs a parsed DOM with the canonical/imputed id assignment
// BuildTree needs, so callers can inspect or reuse the id map (e.g. to
// diagnose which ids were generated).
type Document struct {
	Root *html.Node
	IDs  NodeIDs
}

// parseChecked parses r and rejects a document carrying duplicate id
// attributes; a missing id is not itself an error here, since whether it
// forces matcher alignment depends on the other two documents, decided by
// the caller.
func parseChecked(r io.Reader, what string) (*html.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmlmerge: parsing %s document: %w", what, err)
	}
	if err := CheckWellFormed(root); err != nil {
		return nil, fmt.Errorf("htmlmerge: %s document is not well-formed: %w", what, err)
	}
	return root, nil
}

// loadDocuments parses all three inputs and resolves their ids together,
// per spec.md §6 / §9: if every document already has a non-empty id on
// every mergeable element, each is assigned its own canonical ids
// independently. Otherwise -- mirroring the original implementation's
// runMerge, which runs the text-alignment matcher across all three
// whenever any one of them lacks well-formed ids -- first plays the role
// of the reference ("server") id space: it gets canonical ids on its own
// (synthesizing any it's missing), base's ids are imputed by aligning
// against first, and second's ids are imputed by aligning against the
// now-identified base.
func loadDocuments(baseR, firstR, secondR io.Reader) (base, first, second *Document, err error) {
	baseRoot, err := parseChecked(baseR, "base")
	if err != nil {
		return nil, nil, nil, err
	}
	firstRoot, err := parseChecked(firstR, "first")
	if err != nil {
		return nil, nil, nil, err
	}
	secondRoot, err := parseChecked(secondR, "second")
	if err != nil {
		return nil, nil, nil, err
	}

	if !HasUnidentifiedElements(baseRoot) && !HasUnidentifiedElements(firstRoot) && !HasUnidentifiedElements(secondRoot) {
		return &Document{Root: baseRoot, IDs: AssignCanonicalIDs(baseRoot)},
			&Document{Root: firstRoot, IDs: AssignCanonicalIDs(firstRoot)},
			&Document{Root: secondRoot, IDs: AssignCanonicalIDs(secondRoot)},
			nil
	}

	glog.Infof("htmlmerge: inputs are missing ids, aligning base against first and second against base")
	firstIDs := AssignCanonicalIDs(firstRoot)
	baseIDs, err := ImputeIDs(firstRoot, firstIDs, baseRoot)
	if err != nil {
		return nil, nil, nil, err
	}
	secondIDs, err := ImputeIDs(baseRoot, baseIDs, secondRoot)
	if err != nil {
		return nil, nil, nil, err
	}
	return &Document{Root: baseRoot, IDs: baseIDs},
		&Document{Root: firstRoot, IDs: firstIDs},
		&Document{Root: secondRoot, IDs: secondIDs},
		nil
}

// domEditHandler discards the edit script: document-level HTML merge only
// needs the merged tree.Mutable value itself, which renderMergedTree
// converts directly to an *html.Node graph for serialization.
type domEditHandler struct{}

func (domEditHandler) Insert(tree.Node[string, HtmlContent], string, int, merge.Origin) {}
func (domEditHandler) Delete(string, merge.Origin)                                      {}
func (domEditHandler) Move(string, string, int, merge.Origin)                           {}
func (domEditHandler) Update(string, HtmlContent, merge.Origin)                         {}

// Merge performs the full three-way HTML merge described in spec.md §6:
// parse, id-assign/impute, well-formedness check, run the generic tree
// merge with HtmlNodeMerger, then render the merged tree back to HTML.
func Merge(ctx context.Context, baseR, firstR, secondR io.Reader, w io.Writer) error {
	base, first, second, err := loadDocuments(baseR, firstR, secondR)
	if err != nil {
		return err
	}

	baseTree, err := BuildTree(base.Root, base.IDs)
	if err != nil {
		return err
	}
	firstTree, err := BuildTree(first.Root, first.IDs)
	if err != nil {
		return err
	}
	secondTree, err := BuildTree(second.Root, second.IDs)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	merged, err := merge.Merge[string, HtmlContent](
		baseTree, firstTree, secondTree,
		NewHtmlNodeMerger(),
		merge.FailFastConflictHandler[string, HtmlContent]{},
		domEditHandler{},
	)
	if err != nil {
		return err
	}

	mergedHTML, err := renderMergedTree(merged)
	if err != nil {
		return err
	}
	return html.Render(w, mergedHTML)
}
