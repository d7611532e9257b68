package format

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// position converts a point into a container boundary without splitting
// text.
func position(root *tree.Node, pt cursor.Point) (*tree.Node, int, bool) {
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
	return parent, tree.IndexOf(parent, n), true
}

// lineAt returns the line block holding the boundary (c, i). An inline run
// with no line block of its own is wrapped into a new wrapTag element; the
// boundary is translated when it was expressed on the run's container.
func lineAt(root, c *tree.Node, i int, wrapTag string) (*tree.Node, *tree.Node, int) {
	for {
		switch {
		case i < len(c.Children) && c.Children[i].IsBlock():
			c, i = c.Children[i], 0
			continue
		case i > 0 && i == len(c.Children) && c.Children[i-1].IsBlock():
			c = c.Children[i-1]
			i = len(c.Children)
			continue
		}
		break
	}

	chain, ok := tree.Locate(root, c)
	if !ok {
		return nil, c, i
	}
	path := append(chain, c)
	for k := len(path) - 1; k >= 0; k-- {
		b := path[k]
		if b.Type != tree.DocumentNode && !b.IsBlock() {
			continue
		}
		if isLine(b) && !hasBlockChild(b) {
			return b, c, i
		}

		var lo, hi int
		if b == c {
			lo, hi = i, i
		} else {
			x := tree.IndexOf(b, path[k+1])
			lo, hi = x, x+1
		}
		for lo > 0 && b.Children[lo-1].IsInline() {
			lo--
		}
		for hi < len(b.Children) && b.Children[hi].IsInline() {
			hi++
		}
		wrap := tree.NewElement(wrapTag, nil, append([]*tree.Node(nil), b.Children[lo:hi]...)...)
		children := make([]*tree.Node, 0, len(b.Children)-(hi-lo)+1)
		children = append(children, b.Children[:lo]...)
		children = append(children, wrap)
		children = append(children, b.Children[hi:]...)
		b.Children = children

		if b == c {
			return wrap, wrap, i - lo
		}
		return wrap, c, i
	}
	return nil, c, i
}

// lineBlocks returns the line blocks touched by sel in document order.
func lineBlocks(root *tree.Node, sel cursor.Selection, wrapTag string) []*tree.Node {
	if sel.IsZero() {
		return nil
	}
	var seeds []cursor.Point
	if !sel.IsCollapsed() {
		if o, ok := cursor.Map(root, sel); ok {
			acc := 0
			tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
				if !n.IsText() {
					return true
				}
				l := n.Len()
				if l > 0 && acc < o.End && acc+l > o.Start {
					seeds = append(seeds, cursor.Point{Node: n})
				}
				acc += l
				return acc < o.End
			})
		}
	}
	if len(seeds) == 0 {
		seeds = []cursor.Point{sel.Focus}
	}

	var out []*tree.Node
	seen := make(map[*tree.Node]bool)
	for _, s := range seeds {
		c, i, ok := position(root, s)
		if !ok {
			continue
		}
		b, _, _ := lineAt(root, c, i, wrapTag)
		if b != nil && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// FormatBlock turns the selected lines into tag blocks. When every line
// already is one, they revert to paragraphs.
func FormatBlock(doc *tree.Node, sel cursor.Selection, tag string) Result {
	tag = strings.ToLower(tag)
	blocks := lineBlocks(doc, sel, "p")
	if len(blocks) == 0 {
		return Result{}
	}
	a := atom.Lookup([]byte(tag))

	target := tag
	all := true
	for _, b := range blocks {
		if !b.Is(a) {
			all = false
			break
		}
	}
	if all {
		target = "p"
	}

	for _, b := range blocks {
		if b.Is(atom.Li) {
			if target != "p" {
				b.Children = []*tree.Node{tree.NewElement(target, nil, b.Children...)}
			}
			continue
		}
		retag(b, target)
	}
	tidy(doc)
	return changed()
}

// Justify sets text-align on every selected line, wrapping bare inline
// runs in a div.
func Justify(doc *tree.Node, sel cursor.Selection, align string) Result {
	blocks := lineBlocks(doc, sel, "div")
	if len(blocks) == 0 {
		return Result{}
	}
	for _, b := range blocks {
		style, _ := b.GetAttr(policy.StyleAttr)
		b.SetAttr(policy.StyleAttr, policy.SetStyleProperty(style, "text-align", align))
	}
	tidy(doc)
	return changed()
}

// Align aligns the selection. When the nearest block around the selection
// is a paragraph it is replaced by a div carrying only the alignment and
// the paragraph's children; otherwise Justify applies.
func Align(doc *tree.Node, sel cursor.Selection, align string) Result {
	if sel.IsZero() {
		return Result{}
	}
	if b := enclosingBlock(doc, sel); b != nil && b.Is(atom.P) {
		if parent := parentOf(doc, b); parent != nil {
			div := tree.NewElement("div", []tree.Attribute{
				{Key: policy.StyleAttr, Val: policy.SetStyleProperty("", "text-align", align)},
			}, b.Children...)
			replaceChild(parent, b, div)
			return changed()
		}
	}
	return Justify(doc, sel, align)
}

// enclosingBlock returns the nearest block element containing both ends of
// the selection.
func enclosingBlock(root *tree.Node, sel cursor.Selection) *tree.Node {
	ca, ok := tree.Locate(root, sel.Anchor.Node)
	if !ok {
		return nil
	}
	cf, ok := tree.Locate(root, sel.Focus.Node)
	if !ok {
		return nil
	}
	ca = append(ca, sel.Anchor.Node)
	cf = append(cf, sel.Focus.Node)

	n := 0
	for n < len(ca) && n < len(cf) && ca[n] == cf[n] {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		if ca[i].IsBlock() {
			return ca[i]
		}
	}
	return nil
}

// ToggleList turns the selected lines into items of a listTag list. When
// every line already is such an item, the items become paragraphs again.
// Items of the other list kind switch their list's kind.
func ToggleList(doc *tree.Node, sel cursor.Selection, listTag string) Result {
	listTag = strings.ToLower(listTag)
	a := atom.Lookup([]byte(listTag))
	if a != atom.Ul && a != atom.Ol {
		return Result{}
	}
	blocks := lineBlocks(doc, sel, "p")
	if len(blocks) == 0 {
		return Result{}
	}

	items := make([]*tree.Node, len(blocks))
	all := true
	for i, b := range blocks {
		items[i] = itemOf(doc, b)
		if items[i] == nil || !parentOf(doc, items[i]).Is(a) {
			all = false
		}
	}

	if all {
		seen := make(map[*tree.Node]bool)
		for _, li := range items {
			if !seen[li] {
				seen[li] = true
				unlist(doc, li)
			}
		}
		tidy(doc)
		return changed()
	}

	for i, b := range blocks {
		if li := items[i]; li != nil {
			if list := parentOf(doc, li); list != nil && !list.Is(a) {
				retag(list, listTag)
			}
			continue
		}
		toItem(doc, b, listTag)
	}
	tidy(doc)
	return changed()
}

// itemOf returns the list item a line block belongs to.
func itemOf(root, b *tree.Node) *tree.Node {
	if b.Is(atom.Li) {
		return b
	}
	if p := parentOf(root, b); p.Is(atom.Li) {
		return p
	}
	return nil
}

// unlist lifts an item out of its list as a paragraph, splitting the list
// around it.
func unlist(root, li *tree.Node) {
	list := parentOf(root, li)
	if list == nil {
		return
	}
	grand := parentOf(root, list)
	if grand == nil {
		return
	}
	idx := tree.IndexOf(list, li)
	before := append([]*tree.Node(nil), list.Children[:idx]...)
	after := append([]*tree.Node(nil), list.Children[idx+1:]...)

	content := li.Children
	if !hasBlockChild(li) {
		content = []*tree.Node{tree.El("p", li.Children...)}
	}

	var nodes []*tree.Node
	if len(before) > 0 {
		list.Children = before
		nodes = append(nodes, list)
	}
	nodes = append(nodes, content...)
	if len(after) > 0 {
		rest := list.ShallowClone()
		rest.Children = after
		nodes = append(nodes, rest)
	}
	replaceChild(grand, list, nodes...)
}

// toItem moves a line block into a list item, joining a list of the same
// kind right before it.
func toItem(root, b *tree.Node, listTag string) {
	parent := parentOf(root, b)
	if parent == nil {
		return
	}
	content := []*tree.Node{b}
	if b.Is(atom.P) || (b.Is(atom.Div) && len(b.Attr) == 0) {
		content = b.Children
	}
	li := tree.El("li", content...)

	idx := tree.IndexOf(parent, b)
	if idx > 0 {
		if prev := parent.Children[idx-1]; prev.Name == listTag {
			prev.Children = append(prev.Children, li)
			replaceChild(parent, b)
			return
		}
	}
	replaceChild(parent, b, tree.El(listTag, li))
}
