package format

import (
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
)

func parentOf(root, n *tree.Node) *tree.Node {
	chain, ok := tree.Locate(root, n)
	if !ok || len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

func insertChildren(parent *tree.Node, i int, nodes ...*tree.Node) {
	children := make([]*tree.Node, 0, len(parent.Children)+len(nodes))
	children = append(children, parent.Children[:i]...)
	children = append(children, nodes...)
	children = append(children, parent.Children[i:]...)
	parent.Children = children
}

// replaceChild replaces old with nodes. With no nodes it removes old.
func replaceChild(parent, old *tree.Node, nodes ...*tree.Node) {
	i := tree.IndexOf(parent, old)
	if i < 0 {
		return
	}
	children := make([]*tree.Node, 0, len(parent.Children)+len(nodes))
	children = append(children, parent.Children[:i]...)
	children = append(children, nodes...)
	children = append(children, parent.Children[i+1:]...)
	parent.Children = children
}

// childToward returns the index of the child of n that is or contains c.
func childToward(n, c *tree.Node) int {
	for i, ch := range n.Children {
		if ch == c || tree.Contains(ch, c) {
			return i
		}
	}
	return -1
}

// boundary converts a point into a (container, child index) boundary. A
// point inside a text node splits it. Points on void elements move before
// them.
func boundary(root *tree.Node, pt cursor.Point) (*tree.Node, int, bool) {
	n := pt.Node
	if n == nil {
		return nil, 0, false
	}
	if !n.IsText() && !n.IsVoid() {
		return n, min(max(pt.Offset, 0), len(n.Children)), true
	}
	parent := parentOf(root, n)
	if parent == nil {
		return nil, 0, false
	}
	i := tree.IndexOf(parent, n)
	if n.IsVoid() {
		return parent, i, true
	}

	k := min(max(pt.Offset, 0), n.Len())
	switch k {
	case 0:
		return parent, i, true
	case n.Len():
		return parent, i + 1, true
	}
	runes := []rune(n.Data)
	n.Data = string(runes[:k])
	insertChildren(parent, i+1, tree.NewText(string(runes[k:])))
	return parent, i + 1, true
}

// splitTextAt makes sure a text node boundary falls on the global offset.
func splitTextAt(root *tree.Node, offset int) {
	acc := 0
	var target cursor.Point
	tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
		if !n.IsText() {
			return true
		}
		l := n.Len()
		if acc < offset && offset < acc+l {
			target = cursor.Point{Node: n, Offset: offset - acc}
			return false
		}
		acc += l
		return acc < offset
	})
	if !target.IsZero() {
		boundary(root, target)
	}
}

// textsIn splits text at start and end and returns the non-empty text
// nodes lying inside [start, end).
func textsIn(root *tree.Node, start, end int) []*tree.Node {
	splitTextAt(root, start)
	splitTextAt(root, end)

	var out []*tree.Node
	acc := 0
	tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
		if !n.IsText() {
			return true
		}
		l := n.Len()
		if l > 0 && acc >= start && acc+l <= end {
			out = append(out, n)
		}
		acc += l
		return acc < end
	})
	return out
}

type span struct {
	start, end int
}

// spans assigns every node below n its global text span.
func spans(n *tree.Node, acc int, m map[*tree.Node]span) int {
	start := acc
	if n.IsText() {
		acc += n.Len()
	}
	for _, c := range n.Children {
		acc = spans(c, acc, m)
	}
	m[n] = span{start, acc}
	return acc
}

// covered reports whether a node spanning s lies inside [start, end).
// Zero-length nodes must lie strictly inside.
func covered(s span, start, end int) bool {
	if s.start == s.end {
		return start < s.start && s.start < end
	}
	return start <= s.start && s.end <= end
}

func overlaps(s span, start, end int) bool {
	return s.start < end && s.end > start
}

// commonContainer returns the deepest node whose children hold the whole
// range. It descends into a fully covered line block so the block itself
// survives deletion of its content.
func commonContainer(root *tree.Node, start, end int, sp map[*tree.Node]span) *tree.Node {
	c := root
	for {
		var hits []*tree.Node
		for _, ch := range c.Children {
			s := sp[ch]
			if covered(s, start, end) || overlaps(s, start, end) {
				hits = append(hits, ch)
			}
		}
		if len(hits) != 1 || !hits[0].IsElement() {
			return c
		}
		h := hits[0]
		if covered(sp[h], start, end) && !h.IsBlock() {
			return c
		}
		c = h
	}
}

// extract removes the content of n within [start, end) and returns it.
// Partially covered children keep their outside content and contribute a
// shallow copy holding the inside. idx is the child index of n where the
// removed content began.
func extract(n *tree.Node, start, end int, sp map[*tree.Node]span) (frag []*tree.Node, idx int) {
	var keep []*tree.Node
	idx = -1
	for _, c := range n.Children {
		s := sp[c]
		switch {
		case covered(s, start, end):
			if idx < 0 {
				idx = len(keep)
			}
			frag = append(frag, c)
		case overlaps(s, start, end) && c.IsElement():
			inner, _ := extract(c, start, end, sp)
			cp := c.ShallowClone()
			cp.Children = inner
			frag = append(frag, cp)
			if idx < 0 && s.start >= start {
				idx = len(keep)
			}
			keep = append(keep, c)
			if idx < 0 {
				idx = len(keep)
			}
		default:
			if idx < 0 && s.start >= end && s.end > s.start {
				idx = len(keep)
			}
			keep = append(keep, c)
		}
	}
	if idx < 0 {
		idx = len(keep)
	}
	n.Children = keep
	return frag, idx
}

// nearestLine returns the innermost line block strictly above n.
func nearestLine(root, n *tree.Node) *tree.Node {
	chain, ok := tree.Locate(root, n)
	if !ok {
		return nil
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if isLine(chain[i]) {
			return chain[i]
		}
	}
	return nil
}

// deleteRange removes the content between two global offsets and returns
// the collapsed caret. When the range spans two line blocks the second is
// joined onto the first.
func deleteRange(root *tree.Node, start, end int) cursor.Point {
	texts := textsIn(root, start, end)
	var startBlock, endBlock *tree.Node
	if len(texts) > 0 {
		startBlock = nearestLine(root, texts[0])
		endBlock = nearestLine(root, texts[len(texts)-1])
	}

	sp := make(map[*tree.Node]span)
	spans(root, 0, sp)
	c := commonContainer(root, start, end, sp)
	frag, idx := extract(c, start, end, sp)
	pt := cursor.Point{Node: c, Offset: idx}

	if startBlock != nil && endBlock != nil && startBlock != endBlock &&
		tree.Contains(root, startBlock) && tree.Contains(root, endBlock) {
		return joinBlocks(root, startBlock, endBlock)
	}

	if !isLine(c) {
		for _, f := range frag {
			if isLine(f) {
				p := tree.El("p")
				insertChildren(c, idx, p)
				return cursor.Point{Node: p, Offset: 0}
			}
		}
	}
	return pt
}

// joinBlocks moves the content of from to the end of into, removes from,
// and returns the join point.
func joinBlocks(root, into, from *tree.Node) cursor.Point {
	if tree.Contains(into, from) || tree.Contains(from, into) {
		return cursor.Point{Node: into, Offset: len(into.Children)}
	}
	kids := from.Children
	if isPlaceholder(from) {
		kids = nil
	}
	at := len(into.Children)
	if isPlaceholder(into) {
		// The caret goes before the line break of an empty block, not after it.
		at = 0
		if len(kids) > 0 {
			into.Children = nil
		}
	}
	into.Children = append(into.Children, kids...)
	if p := parentOf(root, from); p != nil {
		replaceChild(p, from)
	}
	return cursor.Point{Node: into, Offset: at}
}

// collapse deletes the selected content, if any, and returns the caret.
func collapse(root *tree.Node, sel cursor.Selection) (cursor.Point, bool) {
	if sel.IsZero() {
		return cursor.Point{}, false
	}
	if sel.IsCollapsed() {
		return sel.Focus, true
	}
	o, ok := cursor.Map(root, sel)
	if !ok {
		return cursor.Point{}, false
	}
	return deleteRange(root, o.Start, o.End), true
}

// splitAt divides n at the boundary (c, i) below or at n into two shallow
// copies of n. Inline wrappers left empty on either side are dropped.
func splitAt(n, c *tree.Node, i int) (left, right *tree.Node) {
	left, right = n.ShallowClone(), n.ShallowClone()
	if n == c {
		left.Children = append([]*tree.Node(nil), n.Children[:i]...)
		right.Children = append([]*tree.Node(nil), n.Children[i:]...)
		return left, right
	}
	k := childToward(n, c)
	l, r := splitAt(n.Children[k], c, i)
	left.Children = append(left.Children, n.Children[:k]...)
	if len(l.Children) > 0 {
		left.Children = append(left.Children, l)
	}
	if len(r.Children) > 0 {
		right.Children = append(right.Children, r)
	}
	right.Children = append(right.Children, n.Children[k+1:]...)
	return left, right
}

// splitAround divides n around its descendant t into the content before
// t, the branch holding t, and the content after t.
func splitAround(n, t *tree.Node) (left, mid, right *tree.Node) {
	left, mid, right = n.ShallowClone(), n.ShallowClone(), n.ShallowClone()
	k := childToward(n, t)
	child := n.Children[k]
	left.Children = append(left.Children, n.Children[:k]...)
	if child == t {
		mid.Children = []*tree.Node{t}
	} else {
		l, m, r := splitAround(child, t)
		if len(l.Children) > 0 {
			left.Children = append(left.Children, l)
		}
		mid.Children = []*tree.Node{m}
		if len(r.Children) > 0 {
			right.Children = append(right.Children, r)
		}
	}
	right.Children = append(right.Children, n.Children[k+1:]...)
	return left, mid, right
}
