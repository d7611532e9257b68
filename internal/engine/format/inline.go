package format

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// equivalents lists the tags treated as the same inline style.
var equivalents = map[atom.Atom][]atom.Atom{
	atom.B:      {atom.B, atom.Strong},
	atom.Strong: {atom.B, atom.Strong},
	atom.I:      {atom.I, atom.Em},
	atom.Em:     {atom.I, atom.Em},
}

// styledAncestor returns the innermost ancestor of n with one of tags.
func styledAncestor(root, n *tree.Node, tags []atom.Atom) (*tree.Node, []*tree.Node, int) {
	chain, ok := tree.Locate(root, n)
	if !ok {
		return nil, nil, -1
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, t := range tags {
			if chain[i].Is(t) {
				return chain[i], chain, i
			}
		}
	}
	return nil, chain, -1
}

// ToggleInline applies the inline style tag to the selected text, or
// removes it when every selected character already carries it. A collapsed
// selection is left alone.
func ToggleInline(doc *tree.Node, sel cursor.Selection, tag string) Result {
	if sel.IsZero() || sel.IsCollapsed() {
		return Result{}
	}
	o, ok := cursor.Map(doc, sel)
	if !ok || o.IsCollapsed() {
		return Result{}
	}
	tag = strings.ToLower(tag)
	a := atom.Lookup([]byte(tag))
	tags, ok := equivalents[a]
	if !ok {
		tags = []atom.Atom{a}
	}

	texts := textsIn(doc, o.Start, o.End)
	if len(texts) == 0 {
		return Result{}
	}

	all := true
	for _, t := range texts {
		if s, _, _ := styledAncestor(doc, t, tags); s == nil {
			all = false
			break
		}
	}

	for _, t := range texts {
		if all {
			unstyle(doc, t, tags)
			continue
		}
		if s, _, _ := styledAncestor(doc, t, tags); s == nil {
			replaceChild(parentOf(doc, t), t, tree.El(tag, t))
		}
	}
	tidy(doc)
	return changed()
}

// unstyle lifts t out of every ancestor carrying one of tags, splitting
// those ancestors around it.
func unstyle(root, t *tree.Node, tags []atom.Atom) {
	for {
		s, chain, i := styledAncestor(root, t, tags)
		if s == nil || i == 0 {
			return
		}
		left, mid, right := splitAround(s, t)
		var nodes []*tree.Node
		if len(left.Children) > 0 {
			nodes = append(nodes, left)
		}
		nodes = append(nodes, mid.Children...)
		if len(right.Children) > 0 {
			nodes = append(nodes, right)
		}
		replaceChild(chain[i-1], s, nodes...)
	}
}

// CreateLink links the selected text to href. Text already inside a link
// retargets that link. With a collapsed selection the URL itself is
// inserted as the link text and the caret moves after it.
func CreateLink(doc *tree.Node, sel cursor.Selection, href string) Result {
	if sel.IsZero() || href == "" {
		return Result{}
	}
	attrs := func() []tree.Attribute {
		return []tree.Attribute{{Key: "href", Val: href}}
	}

	if sel.IsCollapsed() {
		c, i, ok := boundary(doc, sel.Focus)
		if !ok {
			return Result{}
		}
		if isPlaceholder(c) {
			c.Children, i = nil, 0
		}
		text := tree.NewText(href)
		insertChildren(c, i, tree.NewElement("a", attrs(), text))
		tidy(doc)
		return moved(doc, cursor.Point{Node: text, Offset: text.Len()})
	}

	o, ok := cursor.Map(doc, sel)
	if !ok {
		return Result{}
	}
	texts := textsIn(doc, o.Start, o.End)
	if len(texts) == 0 {
		return Result{}
	}
	for _, t := range texts {
		if link, _, _ := styledAncestor(doc, t, []atom.Atom{atom.A}); link != nil {
			link.SetAttr("href", href)
			continue
		}
		replaceChild(parentOf(doc, t), t, tree.NewElement("a", attrs(), t))
	}
	tidy(doc)
	return changed()
}
