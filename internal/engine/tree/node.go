package tree

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

// NodeType identifies the kind of a node.
type NodeType uint8

const (
	// DocumentNode is the root of a tree.
	DocumentNode NodeType = iota
	// ElementNode is a tagged node with attributes and children.
	ElementNode
	// TextNode holds a character sequence.
	TextNode
)

// String returns a string representation of the node type.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Attribute is a single element attribute.
type Attribute struct {
	Key string
	Val string
}

// Node is a node of the document tree.
type Node struct {
	Type NodeType

	// Tag is the interned tag of an element. It is zero for tags unknown
	// to the atom table, in which case Name is authoritative.
	Tag atom.Atom

	// Name is the lowercase tag name of an element.
	Name string

	// Attr holds element attributes in source order.
	Attr []Attribute

	// Data is the text of a text node.
	Data string

	Children []*Node
}

// NewDocument creates a document root holding the given children.
func NewDocument(children ...*Node) *Node {
	return &Node{Type: DocumentNode, Children: children}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

// NewElement creates an element node. The name is lowercased.
func NewElement(name string, attrs []Attribute, children ...*Node) *Node {
	name = strings.ToLower(name)
	return &Node{
		Type:     ElementNode,
		Tag:      atom.Lookup([]byte(name)),
		Name:     name,
		Attr:     attrs,
		Children: children,
	}
}

// El is shorthand for NewElement without attributes.
func El(name string, children ...*Node) *Node {
	return NewElement(name, nil, children...)
}

// IsText returns true for text nodes.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// IsElement returns true for element nodes.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Is returns true if n is an element with the given tag.
func (n *Node) Is(tag atom.Atom) bool {
	return n != nil && n.Type == ElementNode && n.Tag == tag && tag != 0
}

// IsVoid returns true for elements that can never have children.
func (n *Node) IsVoid() bool {
	return n.Is(atom.Br) || n.Is(atom.Img)
}

// IsBlock returns true for block-level elements.
func (n *Node) IsBlock() bool {
	if !n.IsElement() {
		return false
	}
	return blockTags[n.Tag]
}

// IsInline returns true for text nodes and non-block elements.
func (n *Node) IsInline() bool {
	return n.IsText() || (n.IsElement() && !n.IsBlock())
}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Ul: true, atom.Ol: true,
	atom.Li: true, atom.Pre: true, atom.Blockquote: true, atom.Section: true,
	atom.Article: true, atom.Header: true, atom.Footer: true, atom.Nav: true,
	atom.Aside: true, atom.Table: true, atom.Form: true, atom.Hr: true,
	atom.Dl: true, atom.Dd: true, atom.Dt: true, atom.Figure: true, atom.Main: true,
}

// GetAttr returns the value of an attribute.
func (n *Node) GetAttr(key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value in place.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, Attribute{Key: key, Val: val})
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// Len returns the boundary length of the node: runes for text, number of
// children otherwise. Valid point offsets within n are [0, Len].
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.Data)
	}
	return len(n.Children)
}

// TextLen returns the number of runes of text at or below n.
func (n *Node) TextLen() int {
	if n == nil {
		return 0
	}
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.Data)
	}
	total := 0
	Walk(n, func(c *Node, _ []*Node) bool {
		if c.Type == TextNode {
			total += utf8.RuneCountInString(c.Data)
		}
		return true
	})
	return total
}

// TextContent returns the concatenated text at or below n.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	Walk(n, func(c *Node, _ []*Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// ShallowClone copies a node without its children.
func (n *Node) ShallowClone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Type: n.Type,
		Tag:  n.Tag,
		Name: n.Name,
		Data: n.Data,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := n.ShallowClone()
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports whether two trees are structurally and textually identical.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Type != o.Type || n.Name != o.Name || n.Data != o.Data {
		return false
	}
	if len(n.Attr) != len(o.Attr) || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Attr {
		if n.Attr[i] != o.Attr[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// IndexOf returns the index of child in parent's children, or -1.
func IndexOf(parent, child *Node) int {
	if parent == nil {
		return -1
	}
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// String renders the node as markup. A document renders its children.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	if n.Type == DocumentNode {
		return Render(n)
	}
	return Render(NewDocument(n))
}
