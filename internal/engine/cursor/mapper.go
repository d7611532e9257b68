package cursor

import (
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/tree"
)

// isLeaf reports whether n is a caret stop: non-empty text or a line break.
func isLeaf(n *tree.Node) bool {
	return (n.IsText() && n.Data != "") || n.Is(atom.Br)
}

// position is a point measured in global offsets. starts holds the global
// start of every leaf preceding the point in document order.
type position struct {
	offset int
	starts []int
}

// ordinal counts preceding leaves starting exactly at the point's offset.
func (p position) ordinal() int {
	n := 0
	for i := len(p.starts) - 1; i >= 0 && p.starts[i] == p.offset; i-- {
		n++
	}
	return n
}

// measure returns the global offset of pt within root.
func measure(root *tree.Node, pt Point) (position, bool) {
	var pos position
	found := false
	acc := 0

	tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
		if n == pt.Node {
			found = true
			if n.IsText() {
				pos.offset = acc + min(max(pt.Offset, 0), n.Len())
				return false
			}
			k := min(max(pt.Offset, 0), len(n.Children))
			for _, c := range n.Children[:k] {
				tree.Walk(c, func(d *tree.Node, _ []*tree.Node) bool {
					if isLeaf(d) {
						pos.starts = append(pos.starts, acc)
					}
					if d.IsText() {
						acc += d.Len()
					}
					return true
				})
			}
			pos.offset = acc
			return false
		}
		if isLeaf(n) {
			pos.starts = append(pos.starts, acc)
		}
		if n.IsText() {
			acc += n.Len()
		}
		return true
	})
	return pos, found
}

// Map converts a selection on root into global offsets. It returns false
// when the selection is empty or either endpoint lies outside root.
// For a collapsed selection the caret's ordinal among leaves starting at
// the same offset is recorded so Downstream resolution can find it again.
func Map(root *tree.Node, sel Selection) (Offsets, bool) {
	if root == nil || sel.IsZero() {
		return Offsets{}, false
	}
	anchor, ok := measure(root, sel.Anchor)
	if !ok {
		return Offsets{}, false
	}
	focus := anchor
	if sel.Focus != sel.Anchor {
		if focus, ok = measure(root, sel.Focus); !ok {
			return Offsets{}, false
		}
	}

	o := Span(anchor.offset, focus.offset)
	if o.IsCollapsed() {
		o.Ordinal = focus.ordinal()
		return o, true
	}
	start, end := anchor, focus
	if o.Backward {
		start, end = focus, anchor
	}
	o.Ordinal, o.EndOrdinal = start.ordinal(), end.ordinal()
	return o, true
}

// MapSticky is Map for points that should stay with the leaf they precede.
// A point at the start of a text node, or before a child of an element,
// maps with Downstream affinity so resolution does not drift to the end of
// the preceding text. For a range this applies to each end separately.
func MapSticky(root *tree.Node, sel Selection) (Offsets, bool) {
	o, ok := Map(root, sel)
	if !ok {
		return o, ok
	}
	if o.IsCollapsed() {
		if atLeafStart(sel.Focus) {
			o.Affinity = Downstream
		}
		return o, true
	}
	start, end := sel.Anchor, sel.Focus
	if o.Backward {
		start, end = end, start
	}
	if atLeafStart(start) {
		o.Affinity = Downstream
	}
	if atLeafStart(end) {
		o.EndAffinity = Downstream
	}
	return o, true
}

func atLeafStart(pt Point) bool {
	if pt.Node.IsText() {
		return pt.Offset <= 0
	}
	return pt.Offset < len(pt.Node.Children)
}

// Rebase translates a selection on from to the structurally identical
// tree to, typically a clone. It returns false if a point has no
// counterpart.
func Rebase(sel Selection, from, to *tree.Node) (Selection, bool) {
	anchor, ok := rebasePoint(sel.Anchor, from, to)
	if !ok {
		return Selection{}, false
	}
	focus, ok := rebasePoint(sel.Focus, from, to)
	if !ok {
		return Selection{}, false
	}
	return Selection{Anchor: anchor, Focus: focus}, true
}

func rebasePoint(pt Point, from, to *tree.Node) (Point, bool) {
	if pt.Node == nil {
		return Point{}, false
	}
	path, err := tree.PathOf(from, pt.Node)
	if err != nil {
		return Point{}, false
	}
	n := to.At(path)
	if n == nil {
		return Point{}, false
	}
	return Point{Node: n, Offset: pt.Offset}, true
}

// TotalLen returns the length of the offset space of root.
func TotalLen(root *tree.Node) int {
	return root.TextLen()
}
