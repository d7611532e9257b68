package cursor

import (
	"github.com/dshills/inkwell/internal/engine/tree"
)

// DefaultScrollMargin is the extra distance scrolled past the caret when
// bringing it into view.
const DefaultScrollMargin = 30

// Resolve converts a global offset into a point on root using Upstream
// affinity: the first text node whose end reaches the offset wins.
// Offsets beyond the text clamp to the end of the last text node. A tree
// without text resolves to (root, 0).
func Resolve(root *tree.Node, offset int) Point {
	offset = max(offset, 0)
	acc := 0
	var last *tree.Node
	var pt Point
	tree.Walk(root, func(n *tree.Node, _ []*tree.Node) bool {
		if !n.IsText() {
			return true
		}
		l := n.Len()
		if acc+l >= offset {
			pt = Point{Node: n, Offset: offset - acc}
			return false
		}
		acc += l
		last = n
		return true
	})
	if !pt.IsZero() {
		return pt
	}
	if last != nil {
		return Point{Node: last, Offset: last.Len()}
	}
	return Point{Node: root, Offset: 0}
}

// ResolveDownstream converts a global offset into the position before the
// ordinal-th leaf starting exactly at offset. Text leaves resolve to their
// start; a line break resolves to its index in the parent. When no leaf
// starts at offset it falls back to Resolve.
func ResolveDownstream(root *tree.Node, offset, ordinal int) Point {
	offset = max(offset, 0)
	var candidates []Point
	acc := 0
	tree.Walk(root, func(n *tree.Node, ancestors []*tree.Node) bool {
		if acc > offset {
			return false
		}
		if !isLeaf(n) {
			return true
		}
		if acc == offset {
			if n.IsText() {
				candidates = append(candidates, Point{Node: n, Offset: 0})
			} else if len(ancestors) > 0 {
				parent := ancestors[len(ancestors)-1]
				candidates = append(candidates, Point{Node: parent, Offset: tree.IndexOf(parent, n)})
			}
		}
		if n.IsText() {
			acc += n.Len()
		}
		return true
	})
	if len(candidates) == 0 {
		return Resolve(root, offset)
	}
	return candidates[min(max(ordinal, 0), len(candidates)-1)]
}

// ResolveSelection converts offsets into a selection on root. Resolution
// never fails; each end honors its affinity.
func ResolveSelection(root *tree.Node, o Offsets) Selection {
	start := resolveWith(root, o.Start, o.Affinity, o.Ordinal)
	end := start
	if o.End != o.Start {
		end = resolveWith(root, o.End, o.EndAffinity, o.EndOrdinal)
	}
	if o.Backward {
		return Selection{Anchor: end, Focus: start}
	}
	return Selection{Anchor: start, Focus: end}
}

func resolveWith(root *tree.Node, offset int, a Affinity, ordinal int) Point {
	if a == Downstream {
		return ResolveDownstream(root, offset, ordinal)
	}
	return Resolve(root, offset)
}

// Rect is an on-screen rectangle in surface coordinates.
type Rect struct {
	Top, Left, Bottom, Right int
}

// Surface is an editable area that hosts a tree and a selection.
type Surface interface {
	// Root returns the tree currently displayed.
	Root() *tree.Node

	// Attached reports whether the surface is still alive.
	Attached() bool

	// Selection returns the active selection, zero if none.
	Selection() Selection

	// SetSelection replaces the active selection.
	SetSelection(sel Selection)

	// Focus gives the surface input focus.
	Focus()

	// CaretRect returns the on-screen rectangle of a point.
	CaretRect(pt Point) (Rect, bool)

	// Viewport returns the visible rectangle of the surface.
	Viewport() Rect

	ScrollTop() int
	SetScrollTop(top int)
}

// Capture maps the surface's active selection to offsets with MapSticky,
// recording the current scroll position. It returns false when the surface
// is detached or has no selection inside its tree.
func Capture(s Surface) (Offsets, bool) {
	if s == nil || !s.Attached() {
		return Offsets{}, false
	}
	o, ok := MapSticky(s.Root(), s.Selection())
	if !ok {
		return Offsets{}, false
	}
	return o.WithScroll(s.ScrollTop()), true
}

// Restorer re-applies captured offsets to a surface.
type Restorer struct {
	margin int
}

// NewRestorer creates a restorer that keeps margin units of context around
// the caret when scrolling. A negative margin selects DefaultScrollMargin.
func NewRestorer(margin int) *Restorer {
	if margin < 0 {
		margin = DefaultScrollMargin
	}
	return &Restorer{margin: margin}
}

// Margin returns the scroll margin.
func (r *Restorer) Margin() int {
	return r.margin
}

// Restore resolves o against the surface's current tree, applies the
// selection, focuses the surface and scrolls the caret into view. It does
// nothing and returns false when the surface is detached.
func (r *Restorer) Restore(s Surface, o Offsets) (Selection, bool) {
	if s == nil || !s.Attached() {
		return Selection{}, false
	}
	sel := ResolveSelection(s.Root(), o)
	s.SetSelection(sel)
	s.Focus()

	if o.HasScroll {
		s.SetScrollTop(o.Scroll)
	}
	r.reveal(s, sel.Focus)
	return sel, true
}

// reveal scrolls the surface so pt is visible with margin to spare.
func (r *Restorer) reveal(s Surface, pt Point) {
	rect, ok := s.CaretRect(pt)
	if !ok {
		return
	}
	view := s.Viewport()
	switch {
	case rect.Bottom > view.Bottom:
		s.SetScrollTop(s.ScrollTop() + rect.Bottom - view.Bottom + r.margin)
	case rect.Top < view.Top:
		s.SetScrollTop(max(0, s.ScrollTop()-(view.Top-rect.Top)-r.margin))
	}
}
