package format

import (
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// Result reports the outcome of a primitive.
type Result struct {
	// Changed is false when the primitive left the tree untouched.
	Changed bool

	// Caret replaces the caller's selection when Moved is set.
	Caret cursor.Offsets
	Moved bool
}

func changed() Result {
	return Result{Changed: true}
}

// moved reports a change that leaves the caret at pt.
func moved(doc *tree.Node, pt cursor.Point) Result {
	o, ok := cursor.MapSticky(doc, cursor.NewSelection(pt, pt))
	if !ok {
		return changed()
	}
	return Result{Changed: true, Caret: o, Moved: true}
}

// lineTags are the blocks that hold a line of inline content.
var lineTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.H1: true, atom.H2: true,
	atom.Li: true, atom.Pre: true,
}

func isLine(n *tree.Node) bool {
	return n.IsElement() && lineTags[n.Tag]
}

// mergeable inline elements are dropped when empty and merged with an
// identical neighbour.
var mergeable = map[atom.Atom]bool{
	atom.B: true, atom.I: true, atom.U: true, atom.Strong: true,
	atom.Em: true, atom.A: true, atom.Span: true, atom.Code: true,
}

func hasBlockChild(n *tree.Node) bool {
	for _, c := range n.Children {
		if c.IsBlock() {
			return true
		}
	}
	return false
}

// isPlaceholder reports whether a block holds nothing but a line break.
func isPlaceholder(n *tree.Node) bool {
	return len(n.Children) == 1 && n.Children[0].Is(atom.Br)
}

func sameInline(a, b *tree.Node) bool {
	if !a.IsElement() || !b.IsElement() || a.Name != b.Name || !mergeable[a.Tag] {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}

// tidy removes empty text, empty inline wrappers and empty lists, merges
// adjacent identical inline elements, and gives every empty line block a
// line-break placeholder. Text nodes are never merged, so points into text
// stay valid.
func tidy(n *tree.Node) {
	out := n.Children[:0:0]
	for _, c := range n.Children {
		if c.IsText() {
			if c.Data != "" {
				out = append(out, c)
			}
			continue
		}
		tidy(c)
		if len(c.Children) == 0 && !c.IsVoid() {
			switch {
			case mergeable[c.Tag], c.Is(atom.Ul), c.Is(atom.Ol):
				continue
			case isLine(c):
				c.Children = []*tree.Node{tree.El("br")}
			}
		}
		if len(out) > 0 && sameInline(out[len(out)-1], c) {
			prev := out[len(out)-1]
			prev.Children = append(prev.Children, c.Children...)
			continue
		}
		out = append(out, c)
	}
	n.Children = out
}

// retag renames an element in place, keeping attributes and children.
func retag(n *tree.Node, name string) {
	n.Name = name
	n.Tag = atom.Lookup([]byte(name))
}
