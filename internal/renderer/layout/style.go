package layout

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

// Style is a set of presentation flags carried by a cell.
type Style uint16

// Style flags.
const (
	Bold Style = 1 << iota
	Italic
	Underline
	Link
	Code
	Heading
	Image
	Marker
)

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool {
	return s&f == f
}

// Align is the horizontal alignment of a line.
type Align uint8

// Alignments.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the CSS name of the alignment.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// inlineStyle adds the presentation of an inline element.
func inlineStyle(n *tree.Node, s Style) Style {
	switch n.Tag {
	case atom.B, atom.Strong:
		s |= Bold
	case atom.I, atom.Em:
		s |= Italic
	case atom.U:
		s |= Underline
	case atom.A:
		s |= Link
	case atom.Code:
		s |= Code
	}
	return s
}

// alignOf reads text-align from a block's style attribute.
func alignOf(n *tree.Node) (Align, bool) {
	val, ok := n.GetAttr(policy.StyleAttr)
	if !ok {
		return AlignLeft, false
	}
	for _, decl := range policy.Style(val) {
		if decl[0] != "text-align" {
			continue
		}
		switch strings.ToLower(decl[1]) {
		case "center":
			return AlignCenter, true
		case "right", "end":
			return AlignRight, true
		case "left", "start", "justify":
			return AlignLeft, true
		}
	}
	return AlignLeft, false
}
