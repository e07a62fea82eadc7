package merge

import (
	"strings"
	"testing"

	"github.com/hczhang/treesync/tree"
)

// parseTree parses the Lisp-like scenario notation used throughout
// spec.md's testable properties: "label (children...)", with ids taken
// as the lowercase first character of each label and content equal to
// the label itself. Nesting is unlimited; a bare label is a leaf.
func parseTree(t *testing.T, src string) *tree.MutableTree[string, string] {
	t.Helper()
	toks := tokenizeLisp(src)
	pos := 0
	root, next := parseNode(t, toks, pos)
	if next != len(toks) {
		t.Fatalf("trailing tokens after parsing %q: %v", src, toks[next:])
	}
	tr := tree.NewMutableTree[string, string]()
	insertLispNode(t, tr, nil, root)
	return tr
}

type lispNode struct {
	label    string
	children []lispNode
}

func tokenizeLisp(src string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func parseNode(t *testing.T, toks []string, pos int) (lispNode, int) {
	t.Helper()
	if pos >= len(toks) {
		t.Fatalf("unexpected end of input while parsing tree notation")
	}
	n := lispNode{label: toks[pos]}
	pos++
	if pos < len(toks) && toks[pos] == "(" {
		pos++ // consume "("
		for pos < len(toks) && toks[pos] != ")" {
			var child lispNode
			child, pos = parseNode(t, toks, pos)
			n.children = append(n.children, child)
		}
		if pos >= len(toks) || toks[pos] != ")" {
			t.Fatalf("unterminated children list for %q", n.label)
		}
		pos++ // consume ")"
	}
	return n, pos
}

func lispID(label string) string {
	return strings.ToLower(label[:1])
}

func insertLispNode(t *testing.T, tr *tree.MutableTree[string, string], parentID *string, n lispNode) {
	t.Helper()
	id := lispID(n.label)
	if err := tr.Insert(n.label, id, parentID, tree.DefaultPos); err != nil {
		t.Fatalf("insert %q: %v", n.label, err)
	}
	for _, c := range n.children {
		insertLispNode(t, tr, &id, c)
	}
}

// lispNotation renders a merged tree back into the same "label
// (children...)" notation, for asserting expected merge outcomes by
// structural comparison rather than id bookkeeping.
func lispNotation(t *testing.T, tr tree.Addressable[string, string]) string {
	t.Helper()
	root := tr.Root()
	if root == nil {
		return ""
	}
	return renderNode(root)
}

func renderNode(n tree.Node[string, string]) string {
	children := n.Children()
	if len(children) == 0 {
		return n.Content()
	}
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = renderNode(c)
	}
	return n.Content() + " (" + strings.Join(parts, " ") + ")"
}
