package tree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML fragment into a document tree. The fragment is
// parsed in the context of a div, the way an editable region parses its
// inner markup. Comments and doctypes are dropped.
func Parse(markup string) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := NewDocument()
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static content.
func MustParse(markup string) *Node {
	root, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return root
}

func fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		n := &Node{
			Type: ElementNode,
			Tag:  hn.DataAtom,
			Name: strings.ToLower(hn.Data),
		}
		if n.Tag == 0 {
			n.Tag = atom.Lookup([]byte(n.Name))
		}
		for _, a := range hn.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.Attr = append(n.Attr, Attribute{Key: key, Val: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		return n
	default:
		return nil
	}
}

func toHTML(n *Node) *html.Node {
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case ElementNode:
		hn := &html.Node{Type: html.ElementNode, Data: n.Name, DataAtom: n.Tag}
		for _, a := range n.Attr {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
		for _, c := range n.Children {
			hn.AppendChild(toHTML(c))
		}
		return hn
	default:
		hn := &html.Node{Type: html.DocumentNode}
		for _, c := range n.Children {
			hn.AppendChild(toHTML(c))
		}
		return hn
	}
}

// Render serializes the children of a document (or a single node) back
// into an HTML fragment.
func Render(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	nodes := n.Children
	if n.Type != DocumentNode {
		nodes = []*Node{n}
	}
	for _, c := range nodes {
		// strings.Builder never returns a write error.
		_ = html.Render(&sb, toHTML(c))
	}
	return sb.String()
}
