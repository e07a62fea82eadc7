package htmlmerge

import (
	"fmt"

	"github.com/hczhang/treesync/merge"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/net/html"
)

// TextMergeConfig carries the diff_match_patch tunables HtmlNodeMerger
// hard-codes in the original: a 20% mismatch tolerance at zero proximity,
// and a maximum alignment shift of 500 characters at zero mismatch.
type TextMergeConfig struct {
	MatchThreshold  float64
	MatchDistance   int
	DeleteThreshold float64
}

// DefaultTextMergeConfig reproduces HtmlNodeMerger.mergeText's constants.
func DefaultTextMergeConfig() TextMergeConfig {
	return TextMergeConfig{
		MatchThreshold:  0.2,
		MatchDistance:   2500,
		DeleteThreshold: 0.05,
	}
}

// HtmlNodeMerger is the Go counterpart of HtmlNodeMerger.java: it merges
// element tags (name + attribute list, three-way per attribute) and text
// nodes (via diff+patch), and treats any divergent combination of node
// kinds, or a change that can't be expressed as a clean patch, as a
// content conflict.
type HtmlNodeMerger struct {
	TextConfig TextMergeConfig
}

// NewHtmlNodeMerger returns a merger configured with
// DefaultTextMergeConfig.
func NewHtmlNodeMerger() *HtmlNodeMerger {
	return &HtmlNodeMerger{TextConfig: DefaultTextMergeConfig()}
}

func (m *HtmlNodeMerger) NodeEquals(a, b HtmlContent) bool {
	return a.Equal(b)
}

// MergeContent implements merge.NodeMerger[string, HtmlContent], following
// HtmlNodeMerger.mergeContent's case analysis: no change in either branch
// keeps base, a change in exactly one branch takes that branch, identical
// changes in both take either, and genuinely divergent changes are merged
// structurally (mergeTag) or textually (mergeText) -- or rejected as a
// content conflict if the node kinds themselves disagree.
func (m *HtmlNodeMerger) MergeContent(id string, base, first, second HtmlContent) (HtmlContent, error) {
	changeInFirst := !base.Equal(first)
	changeInSecond := !base.Equal(second)
	switch {
	case !changeInFirst && !changeInSecond:
		return base, nil
	case !changeInFirst && changeInSecond:
		return second, nil
	case changeInFirst && !changeInSecond:
		return first, nil
	case first.Equal(second):
		return first, nil
	}

	if base.Kind == KindText && first.Kind == KindText && second.Kind == KindText {
		return m.mergeText(id, base, first, second)
	}
	if base.Kind == KindComment && first.Kind == KindComment && second.Kind == KindComment {
		return m.mergeText(id, base, first, second)
	}
	if base.Kind == KindElement && first.Kind == KindElement && second.Kind == KindElement {
		return m.mergeTag(id, base, first, second)
	}
	return HtmlContent{}, &merge.ContentConflictError{ID: id}
}

// mergeTag implements HtmlNodeMerger.mergeTag: the tag name and every
// attribute (union of names across all three branches) are merged
// independently via threeWayMergeValue, with the merged attribute order
// following base, then first, then second.
func (m *HtmlNodeMerger) mergeTag(id string, base, first, second HtmlContent) (HtmlContent, error) {
	mergedTag, err := threeWayMergeValue(id, base.Tag, first.Tag, second.Tag)
	if err != nil {
		return HtmlContent{}, &merge.ContentConflictError{ID: id}
	}

	if dup := dupAttrName(base.Attrs, first.Attrs, second.Attrs); dup {
		return HtmlContent{}, &merge.ContentConflictError{ID: id}
	}

	order := make([]string, 0)
	seen := make(map[string]bool)
	collect := func(attrs []html.Attribute) {
		for _, a := range attrs {
			if !seen[a.Key] {
				seen[a.Key] = true
				order = append(order, a.Key)
			}
		}
	}
	collect(base.Attrs)
	collect(first.Attrs)
	collect(second.Attrs)

	var merged []html.Attribute
	for _, name := range order {
		v0, ok0 := attr(base.Attrs, name)
		v1, ok1 := attr(first.Attrs, name)
		v2, ok2 := attr(second.Attrs, name)
		mergedVal, present, err := threeWayMergeOptional(id, name, v0, ok0, v1, ok1, v2, ok2)
		if err != nil {
			return HtmlContent{}, &merge.ContentConflictError{ID: id}
		}
		if present {
			merged = append(merged, html.Attribute{Key: name, Val: mergedVal})
		}
	}

	return HtmlContent{Kind: KindElement, Tag: mergedTag, Attrs: merged}, nil
}

// dupAttrName reports whether any single attribute list among the three
// branches repeats an attribute name, mirroring HtmlNodeMerger's
// initAttributeMerger/seenAttributes check: a repeated name within one
// element is always a content conflict, independent of the other branches.
func dupAttrName(attrLists ...[]html.Attribute) bool {
	for _, attrs := range attrLists {
		seen := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			if seen[a.Key] {
				return true
			}
			seen[a.Key] = true
		}
	}
	return false
}

// mergeText implements HtmlNodeMerger.mergeText/threeWayMergeString: diff
// base->first, try to apply that patch to second; on failure, try the
// symmetric base->second patch against first.
func (m *HtmlNodeMerger) mergeText(id string, base, first, second HtmlContent) (HtmlContent, error) {
	dmp := diffmatchpatch.New()
	dmp.MatchThreshold = m.TextConfig.MatchThreshold
	dmp.MatchDistance = m.TextConfig.MatchDistance
	dmp.PatchDeleteThreshold = m.TextConfig.DeleteThreshold

	if merged, ok := threeWayMergeString(dmp, base.Text, first.Text, second.Text); ok {
		return HtmlContent{Kind: base.Kind, Text: merged}, nil
	}
	if merged, ok := threeWayMergeString(dmp, base.Text, second.Text, first.Text); ok {
		return HtmlContent{Kind: base.Kind, Text: merged}, nil
	}
	return HtmlContent{}, &merge.ContentConflictError{ID: id}
}

func threeWayMergeString(dmp *diffmatchpatch.DiffMatchPatch, t0, t1, t2 string) (string, bool) {
	patches := dmp.PatchMake(t0, t1)
	merged, results := dmp.PatchApply(patches, t2)
	for _, applied := range results {
		if !applied {
			return "", false
		}
	}
	return merged, true
}

// threeWayMergeValue implements HtmlNodeMerger.threeWayMergeValue for
// required (always-present) string values like the tag name.
func threeWayMergeValue(id, v0, v1, v2 string) (string, error) {
	merged, present, err := threeWayMergeOptional(id, "", v0, true, v1, true, v2, true)
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("htmlmerge: unexpected deletion of required value at %q", id)
	}
	return merged, nil
}

// threeWayMergeOptional generalizes threeWayMergeValue to attribute
// presence as well as value: ok0/ok1/ok2 track whether the attribute is
// present at all in base/first/second, with "absent" acting like Java's
// null sentinel.
func threeWayMergeOptional(id, attrName string, v0 string, ok0 bool, v1 string, ok1 bool, v2 string, ok2 bool) (string, bool, error) {
	sameUpdate := (ok1 == ok2) && (!ok1 || v1 == v2)
	if sameUpdate {
		return v1, ok1, nil
	}
	if !ok0 {
		if !ok1 {
			return v2, ok2, nil
		}
		if !ok2 {
			return v1, ok1, nil
		}
		return "", false, &conflictError{id: id, attr: attrName, reason: "diverging content inserted at same location"}
	}
	if ok1 && v0 == v1 {
		return v2, ok2, nil
	}
	if ok2 && v0 == v2 {
		return v1, ok1, nil
	}
	return "", false, &conflictError{id: id, attr: attrName, reason: "conflicting updates to existing content"}
}

type conflictError struct {
	id, attr, reason string
}

func (e *conflictError) Error() string {
	if e.attr == "" {
		return fmt.Sprintf("htmlmerge: %s at %q", e.reason, e.id)
	}
	return fmt.Sprintf("htmlmerge: %s at %q attribute %q", e.reason, e.id, e.attr)
}
