package format

import (
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// InsertText replaces the selection with text and moves the caret after
// it.
func InsertText(doc *tree.Node, sel cursor.Selection, text string) Result {
	if text == "" {
		return Result{}
	}
	pt, ok := collapse(doc, sel)
	if !ok {
		return Result{}
	}
	c, i, ok := boundary(doc, pt)
	if !ok {
		return Result{}
	}
	if isPlaceholder(c) {
		c.Children, i = nil, 0
	}
	t := tree.NewText(text)
	insertChildren(c, i, t)
	tidy(doc)
	return moved(doc, cursor.Point{Node: t, Offset: t.Len()})
}

// InsertImage replaces the selection with an image.
func InsertImage(doc *tree.Node, sel cursor.Selection, src string) Result {
	if src == "" {
		return Result{}
	}
	pt, ok := collapse(doc, sel)
	if !ok {
		return Result{}
	}
	c, i, ok := boundary(doc, pt)
	if !ok {
		return Result{}
	}
	if isPlaceholder(c) {
		c.Children, i = nil, 0
	}
	insertChildren(c, i, tree.NewElement("img", []tree.Attribute{{Key: "src", Val: src}}))
	tidy(doc)
	if !sel.IsCollapsed() {
		return moved(doc, cursor.Point{Node: c, Offset: i + 1})
	}
	return changed()
}

// WrapCode extracts the selected content and inserts it back wrapped in a
// pre block, with an inner code element when the content is inline only.
// A collapsed selection is left alone.
func WrapCode(doc *tree.Node, sel cursor.Selection) Result {
	if sel.IsZero() || sel.IsCollapsed() {
		return Result{}
	}
	o, ok := cursor.Map(doc, sel)
	if !ok || o.IsCollapsed() {
		return Result{}
	}
	splitTextAt(doc, o.Start)
	splitTextAt(doc, o.End)

	sp := make(map[*tree.Node]span)
	spans(doc, 0, sp)
	c := commonContainer(doc, o.Start, o.End, sp)
	frag, idx := extract(c, o.Start, o.End, sp)
	if len(frag) == 0 {
		return Result{}
	}

	inline := true
	for _, f := range frag {
		if f.IsBlock() {
			inline = false
			break
		}
	}
	pre := tree.El("pre", frag...)
	if inline {
		pre.Children = []*tree.Node{tree.El("code", frag...)}
	}
	insertChildren(c, idx, pre)
	tidy(doc)
	return changed()
}

// InsertParagraph splits the line block at the caret so a new block starts
// there, and moves the caret to the start of the new block. An inline run
// without a block is first wrapped in a paragraph. Inside pre a newline is
// inserted instead; on an empty list item the item leaves the list.
func InsertParagraph(doc *tree.Node, sel cursor.Selection) Result {
	pt, ok := collapse(doc, sel)
	if !ok {
		return Result{}
	}
	c, i, ok := boundary(doc, pt)
	if !ok {
		return Result{}
	}
	block, c, i := lineAt(doc, c, i, "p")
	if block == nil {
		return Result{}
	}

	if block.Is(atom.Pre) {
		if isPlaceholder(c) {
			c.Children, i = nil, 0
		}
		t := tree.NewText("\n")
		insertChildren(c, i, t)
		tidy(doc)
		return moved(doc, cursor.Point{Node: t, Offset: 1})
	}

	parent := parentOf(doc, block)
	if parent == nil {
		return Result{}
	}
	if block.Is(atom.Li) && isBlank(block) {
		p := exitList(doc, block)
		tidy(doc)
		return moved(doc, cursor.Point{Node: p, Offset: 0})
	}

	left, right := splitAt(block, c, i)
	if (block.Is(atom.H1) || block.Is(atom.H2)) && isBlank(right) {
		right = tree.El("p", right.Children...)
	}
	replaceChild(parent, block, left, right)
	tidy(doc)
	return moved(doc, cursor.Point{Node: right, Offset: 0})
}

// isBlank reports whether n holds no text and no image.
func isBlank(n *tree.Node) bool {
	blank := true
	tree.Walk(n, func(c *tree.Node, _ []*tree.Node) bool {
		if (c.IsText() && c.Data != "") || c.Is(atom.Img) {
			blank = false
			return false
		}
		return true
	})
	return blank
}

// exitList replaces an empty item with a paragraph placed after its list,
// splitting the list around it.
func exitList(root, li *tree.Node) *tree.Node {
	p := tree.El("p")
	list := parentOf(root, li)
	grand := parentOf(root, list)
	if list == nil || grand == nil {
		return p
	}
	idx := tree.IndexOf(list, li)
	before := append([]*tree.Node(nil), list.Children[:idx]...)
	after := append([]*tree.Node(nil), list.Children[idx+1:]...)

	var nodes []*tree.Node
	if len(before) > 0 {
		list.Children = before
		nodes = append(nodes, list)
	}
	nodes = append(nodes, p)
	if len(after) > 0 {
		rest := list.ShallowClone()
		rest.Children = after
		nodes = append(nodes, rest)
	}
	replaceChild(grand, list, nodes...)
	return p
}

// lines returns the line blocks without block children in document order.
func lines(root *tree.Node) []*tree.Node {
	var out []*tree.Node
	tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
		if isLine(n) && !hasBlockChild(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// neighbourLine returns the line block before (dir < 0) or after b.
func neighbourLine(root, b *tree.Node, dir int) *tree.Node {
	all := lines(root)
	for i, n := range all {
		if n != b {
			continue
		}
		if j := i + dir; j >= 0 && j < len(all) {
			return all[j]
		}
		return nil
	}
	return nil
}

// edgeOf reports whether the boundary (c, i) is the first (dir < 0) or last
// position inside block.
func edgeOf(root, block, c *tree.Node, i, dir int) bool {
	if isPlaceholder(block) {
		return true
	}
	n := c
	for {
		if dir < 0 && i != 0 {
			return false
		}
		if dir > 0 && i != len(n.Children) {
			return false
		}
		if n == block {
			return true
		}
		p := parentOf(root, n)
		if p == nil {
			return false
		}
		i = tree.IndexOf(p, n)
		if dir > 0 {
			i++
		}
		n = p
	}
}

// DeleteBackward deletes the selection, or the character before a
// collapsed caret. At the start of a line block the block joins the
// previous one.
func DeleteBackward(doc *tree.Node, sel cursor.Selection) Result {
	return deleteChar(doc, sel, -1)
}

// DeleteForward deletes the selection, or the character after a collapsed
// caret. At the end of a line block the next block joins it.
func DeleteForward(doc *tree.Node, sel cursor.Selection) Result {
	return deleteChar(doc, sel, 1)
}

func deleteChar(doc *tree.Node, sel cursor.Selection, dir int) Result {
	if sel.IsZero() {
		return Result{}
	}
	if !sel.IsCollapsed() {
		pt, ok := collapse(doc, sel)
		if !ok {
			return Result{}
		}
		tidy(doc)
		return moved(doc, pt)
	}

	o, ok := cursor.Map(doc, sel)
	if !ok {
		return Result{}
	}
	c, i, ok := boundary(doc, sel.Focus)
	if !ok {
		return Result{}
	}

	block := c
	if !isLine(block) {
		block = nearestLine(doc, c)
	}
	if block != nil && !hasBlockChild(block) && edgeOf(doc, block, c, i, dir) {
		next := neighbourLine(doc, block, dir)
		if next == nil {
			return Result{}
		}
		var pt cursor.Point
		if dir < 0 {
			pt = joinBlocks(doc, next, block)
		} else {
			pt = joinBlocks(doc, block, next)
		}
		tidy(doc)
		return moved(doc, pt)
	}

	// Zero-length neighbours such as line breaks and images go first.
	j := i
	if dir < 0 {
		j = i - 1
	}
	if j >= 0 && j < len(c.Children) {
		if n := c.Children[j]; n.IsElement() && n.TextLen() == 0 {
			replaceChild(c, n)
			tidy(doc)
			return moved(doc, cursor.Point{Node: c, Offset: min(i, j)})
		}
	}

	start, end := o.Start-1, o.Start
	if dir > 0 {
		start, end = o.Start, o.Start+1
	}
	if start < 0 || end > doc.TextLen() {
		return Result{}
	}
	pt := deleteRange(doc, start, end)
	tidy(doc)
	return moved(doc, pt)
}
