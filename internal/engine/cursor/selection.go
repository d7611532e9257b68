package cursor

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/tree"
)

// Point is a boundary point: a node and an offset within it.
// For text nodes the offset counts runes; otherwise it counts children.
type Point struct {
	Node   *tree.Node
	Offset int
}

// IsZero returns true if the point references no node.
func (p Point) IsZero() bool {
	return p.Node == nil
}

// String returns a debug representation of the point.
func (p Point) String() string {
	if p.Node == nil {
		return "<none>"
	}
	if p.Node.IsText() {
		return fmt.Sprintf("%q@%d", p.Node.Data, p.Offset)
	}
	name := p.Node.Name
	if p.Node.Type == tree.DocumentNode {
		name = "#document"
	}
	return fmt.Sprintf("<%s>@%d", name, p.Offset)
}

// Selection represents a range of selected content.
// Anchor is where the selection started; Focus is the caret position.
// When Anchor == Focus, this represents a caret with no selected content.
// Selection is an immutable value type.
type Selection struct {
	Anchor Point
	Focus  Point
}

// NewSelection creates a selection from anchor to focus.
func NewSelection(anchor, focus Point) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

// NewCaret creates a collapsed selection at the given point.
func NewCaret(node *tree.Node, offset int) Selection {
	p := Point{Node: node, Offset: offset}
	return Selection{Anchor: p, Focus: p}
}

// IsZero returns true if the selection references no nodes.
func (s Selection) IsZero() bool {
	return s.Anchor.IsZero() || s.Focus.IsZero()
}

// IsCollapsed returns true if the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Collapse collapses the selection to a caret at the focus.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Focus, Focus: s.Focus}
}

// Flip returns a selection with anchor and focus swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Focus, Focus: s.Anchor}
}

// String returns a debug representation of the selection.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return s.Focus.String()
	}
	return s.Anchor.String() + ".." + s.Focus.String()
}
