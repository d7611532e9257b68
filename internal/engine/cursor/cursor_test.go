package cursor_test

import (
	"testing"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

func mustMap(t *testing.T, root *tree.Node, sel cursor.Selection) cursor.Offsets {
	t.Helper()
	o, ok := cursor.Map(root, sel)
	if !ok {
		t.Fatalf("Map(%s) failed", sel)
	}
	return o
}

func TestMapHelloWorld(t *testing.T) {
	root := tree.MustParse("Hello world")
	text := root.Children[0]

	o := mustMap(t, root, cursor.NewCaret(text, 5))
	if o.Start != 5 || o.End != 5 {
		t.Fatalf("got (%d,%d), want (5,5)", o.Start, o.End)
	}

	sel := cursor.ResolveSelection(root, o)
	if sel.Focus.Node != text || sel.Focus.Offset != 5 || !sel.IsCollapsed() {
		t.Errorf("resolved to %s, want caret after \"Hello\"", sel)
	}
}

func TestMapElementPoints(t *testing.T) {
	root := tree.MustParse("<p>ab</p><p>cd</p>")
	p2 := root.Children[1]

	tests := []struct {
		name string
		pt   cursor.Point
		want int
	}{
		{"document start", cursor.Point{Node: root, Offset: 0}, 0},
		{"between paragraphs", cursor.Point{Node: root, Offset: 1}, 2},
		{"document end", cursor.Point{Node: root, Offset: 2}, 4},
		{"paragraph start", cursor.Point{Node: p2, Offset: 0}, 2},
		{"paragraph end", cursor.Point{Node: p2, Offset: 1}, 4},
		{"offset clamped", cursor.Point{Node: p2, Offset: 9}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustMap(t, root, cursor.NewSelection(tt.pt, tt.pt))
			if o.Start != tt.want {
				t.Errorf("got %d, want %d", o.Start, tt.want)
			}
		})
	}
}

func TestMapOutsideTree(t *testing.T) {
	root := tree.MustParse("<p>ab</p>")
	other := tree.NewText("zz")

	if _, ok := cursor.Map(root, cursor.NewCaret(other, 1)); ok {
		t.Error("Map should fail for a point outside the tree")
	}
	if _, ok := cursor.Map(root, cursor.Selection{}); ok {
		t.Error("Map should fail for an empty selection")
	}
}

func TestMapBackwardSelection(t *testing.T) {
	root := tree.MustParse("<p>ab</p><p>cd</p>")
	ab := root.Children[0].Children[0]
	cd := root.Children[1].Children[0]

	sel := cursor.NewSelection(cursor.Point{Node: cd, Offset: 1}, cursor.Point{Node: ab, Offset: 1})
	o := mustMap(t, root, sel)
	if o.Start != 1 || o.End != 3 || !o.Backward {
		t.Fatalf("got %+v", o)
	}

	back := cursor.ResolveSelection(root, o)
	if back != sel {
		t.Errorf("got %s, want %s", back, sel)
	}
}

func TestRoundTripPreservesOffsets(t *testing.T) {
	root := tree.MustParse("<p>Hello <b>world</b></p><ul><li>one</li><li>two</li></ul><p>x</p>")

	for _, text := range tree.TextNodes(root) {
		for k := 0; k <= text.Len(); k++ {
			o := mustMap(t, root, cursor.NewCaret(text, k))

			up := cursor.ResolveSelection(root, o)
			if again := mustMap(t, root, up); again.Start != o.Start || again.End != o.End {
				t.Errorf("upstream round trip of (%q,%d): %d -> %d", text.Data, k, o.Start, again.Start)
			}
			if k > 0 && (up.Focus.Node != text || up.Focus.Offset != k) {
				t.Errorf("upstream resolve of (%q,%d) gave %s", text.Data, k, up.Focus)
			}

			if k == 0 {
				down := cursor.ResolveSelection(root, o.Downstream(o.Ordinal))
				if down.Focus.Node != text || down.Focus.Offset != 0 {
					t.Errorf("downstream resolve of (%q,0) gave %s", text.Data, down.Focus)
				}
			}
		}
	}
}

func TestRoundTripRangeEndingAtLeafStart(t *testing.T) {
	root := tree.MustParse("<p>ab</p><p>cd</p>")
	ab := root.Children[0].Children[0]
	cd := root.Children[1].Children[0]

	for _, sel := range []cursor.Selection{
		cursor.NewSelection(cursor.Point{Node: ab, Offset: 1}, cursor.Point{Node: cd, Offset: 0}),
		cursor.NewSelection(cursor.Point{Node: cd, Offset: 0}, cursor.Point{Node: ab, Offset: 1}),
	} {
		o, ok := cursor.MapSticky(root, sel)
		if !ok {
			t.Fatalf("MapSticky(%s) failed", sel)
		}
		if o.Start != 1 || o.End != 2 || o.EndAffinity != cursor.Downstream {
			t.Errorf("MapSticky(%s) = %+v", sel, o)
		}
		if back := cursor.ResolveSelection(root, o); back != sel {
			t.Errorf("got %s, want %s", back, sel)
		}
	}
}

func TestResolveClamps(t *testing.T) {
	root := tree.MustParse("<p>abc</p>")
	abc := root.Children[0].Children[0]

	if pt := cursor.Resolve(root, 100); pt.Node != abc || pt.Offset != 3 {
		t.Errorf("past end: got %s", pt)
	}
	if pt := cursor.Resolve(root, -4); pt.Node != abc || pt.Offset != 0 {
		t.Errorf("negative: got %s", pt)
	}

	empty := tree.MustParse("<p><br></p>")
	if pt := cursor.Resolve(empty, 3); pt.Node != empty || pt.Offset != 0 {
		t.Errorf("no text: got %s", pt)
	}
}

func TestResolveDownstreamLineBreaks(t *testing.T) {
	p1 := tree.El("p", tree.El("br"))
	p2 := tree.El("p", tree.El("br"))
	root := tree.NewDocument(p1, p2)

	for _, para := range []*tree.Node{p1, p2} {
		caret := cursor.NewCaret(para, 0)
		o := mustMap(t, root, caret)
		got := cursor.ResolveSelection(root, o.Downstream(o.Ordinal))
		if got != caret {
			t.Errorf("got %s, want %s", got, caret)
		}
	}

	if pt := cursor.ResolveDownstream(root, 0, 7); pt.Node != p2 || pt.Offset != 0 {
		t.Errorf("ordinal should clamp to the last candidate, got %s", pt)
	}
}

func TestResolveDownstreamAfterSplit(t *testing.T) {
	root := tree.MustParse("<p>a</p><p>bc</p>")
	bc := root.Children[1].Children[0]

	o := mustMap(t, root, cursor.NewCaret(bc, 0))
	if o.Start != 1 || o.Ordinal != 0 {
		t.Fatalf("got %+v", o)
	}

	up := cursor.ResolveSelection(root, o)
	if up.Focus.Node == bc {
		t.Error("upstream should resolve to the end of the preceding text")
	}
	down := cursor.ResolveSelection(root, o.Downstream(o.Ordinal))
	if down.Focus.Node != bc || down.Focus.Offset != 0 {
		t.Errorf("downstream resolved to %s", down.Focus)
	}

	if pt := cursor.ResolveDownstream(root, 2, 0); pt.Node != bc || pt.Offset != 1 {
		t.Errorf("fallback inside text: got %s", pt)
	}
}

func TestResolveAfterSanitizeRemovesText(t *testing.T) {
	before := tree.NewDocument(
		tree.El("p", tree.NewText("ab")),
		tree.El("script", tree.NewText("xyz")),
		tree.El("p", tree.NewText("cd")),
	)
	script := before.Children[1].Children[0]
	cdBefore := before.Children[2].Children[0]

	after := policy.Default().Enforce(before)
	cd := after.Children[1].Children[0]

	inside := mustMap(t, before, cursor.NewCaret(script, 1))
	if pt := cursor.Resolve(after, inside.Start); pt.Node != cd || pt.Offset != 1 {
		t.Errorf("offset in removed text: got %s", pt)
	}

	last := mustMap(t, before, cursor.NewCaret(cdBefore, 1))
	if pt := cursor.Resolve(after, last.Start); pt.Node != cd || pt.Offset != 2 {
		t.Errorf("offset past shortened end: got %s", pt)
	}
}

// charAt returns the byte after pt in its text node, or 0.
func charAt(pt cursor.Point) byte {
	if pt.Node == nil || !pt.Node.IsText() || pt.Offset >= len(pt.Node.Data) {
		return 0
	}
	return pt.Node.Data[pt.Offset]
}

func TestOffsetsSurviveBlockPromotion(t *testing.T) {
	// The HTML parser never nests a div in a p, so build the tree directly.
	inner := tree.NewText("bc")
	tail := tree.NewText("d")
	before := tree.NewDocument(tree.El("p", tree.NewText("a"), tree.El("div", inner), tail))

	after := policy.Default().Enforce(before)
	if after.TextContent() != "abcd" {
		t.Fatalf("promotion changed the text: %q", after.TextContent())
	}

	mid := mustMap(t, before, cursor.NewCaret(inner, 1))
	if pt := cursor.Resolve(after, mid.Start); charAt(pt) != 'c' {
		t.Errorf("caret before \"c\" resolved to %s", pt)
	}

	start, ok := cursor.MapSticky(before, cursor.NewCaret(tail, 0))
	if !ok {
		t.Fatal("MapSticky failed")
	}
	sel := cursor.ResolveSelection(after, start)
	if charAt(sel.Focus) != 'd' {
		t.Errorf("caret before \"d\" resolved to %s", sel.Focus)
	}
}

// fakeSurface lays text nodes out one per row, rowHeight units tall.
type fakeSurface struct {
	root     *tree.Node
	attached bool
	sel      cursor.Selection
	focused  bool
	scroll   int
	rows     map[*tree.Node]int
}

const rowHeight = 10

func newFakeSurface(root *tree.Node) *fakeSurface {
	s := &fakeSurface{root: root, attached: true, rows: make(map[*tree.Node]int)}
	for i, n := range tree.TextNodes(root) {
		s.rows[n] = i
	}
	return s
}

func (s *fakeSurface) Root() *tree.Node                  { return s.root }
func (s *fakeSurface) Attached() bool                    { return s.attached }
func (s *fakeSurface) Selection() cursor.Selection       { return s.sel }
func (s *fakeSurface) SetSelection(sel cursor.Selection) { s.sel = sel }
func (s *fakeSurface) Focus()                            { s.focused = true }
func (s *fakeSurface) Viewport() cursor.Rect             { return cursor.Rect{Bottom: 100, Right: 80} }
func (s *fakeSurface) ScrollTop() int                    { return s.scroll }
func (s *fakeSurface) SetScrollTop(top int)              { s.scroll = top }

func (s *fakeSurface) CaretRect(pt cursor.Point) (cursor.Rect, bool) {
	row, ok := s.rows[pt.Node]
	if !ok {
		return cursor.Rect{}, false
	}
	top := row*rowHeight - s.scroll
	return cursor.Rect{Top: top, Bottom: top + rowHeight, Right: 1}, true
}

func paragraphs(n int) *tree.Node {
	root := tree.NewDocument()
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, tree.El("p", tree.NewText("line")))
	}
	return root
}

func TestRestoreDetachedIsNoop(t *testing.T) {
	s := newFakeSurface(tree.MustParse("<p>abc</p>"))
	s.attached = false

	if _, ok := cursor.NewRestorer(-1).Restore(s, cursor.Caret(1)); ok {
		t.Error("Restore should report false on a detached surface")
	}
	if !s.sel.IsZero() || s.focused {
		t.Error("detached surface was touched")
	}
}

func TestRestoreKeepsCapturedScroll(t *testing.T) {
	root := paragraphs(10)
	s := newFakeSurface(root)

	// Caret on row 6 (top 60) is visible with scroll 50.
	o := cursor.Caret(6*4 + 1).WithScroll(50)
	sel, ok := cursor.NewRestorer(cursor.DefaultScrollMargin).Restore(s, o)
	if !ok {
		t.Fatal("Restore failed")
	}
	if s.scroll != 50 {
		t.Errorf("scroll = %d, want 50", s.scroll)
	}
	if !s.focused || s.sel != sel {
		t.Error("selection not applied or surface not focused")
	}
	if sel.Focus.Node != root.Children[6].Children[0] || sel.Focus.Offset != 1 {
		t.Errorf("resolved to %s", sel.Focus)
	}
}

func TestRestoreScrollsCaretIntoView(t *testing.T) {
	tests := []struct {
		name   string
		row    int
		scroll int
		want   int
	}{
		{"below viewport", 30, 0, 310 - 100 + 30},
		{"above viewport", 10, 300, 300 - 200 - 30},
		{"above clamps at zero", 2, 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeSurface(paragraphs(40))
			o := cursor.Caret(tt.row*4 + 2).WithScroll(tt.scroll)

			cursor.NewRestorer(cursor.DefaultScrollMargin).Restore(s, o)
			if s.scroll != tt.want {
				t.Errorf("scroll = %d, want %d", s.scroll, tt.want)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	root := tree.MustParse("<p>abc</p>")
	s := newFakeSurface(root)
	s.scroll = 12
	s.sel = cursor.NewCaret(root.Children[0].Children[0], 2)

	o, ok := cursor.Capture(s)
	if !ok {
		t.Fatal("Capture failed")
	}
	if o.Start != 2 || !o.HasScroll || o.Scroll != 12 {
		t.Errorf("got %+v", o)
	}

	s.attached = false
	if _, ok := cursor.Capture(s); ok {
		t.Error("Capture should fail on a detached surface")
	}
}

func TestMapStickyKeepsParagraphStart(t *testing.T) {
	root := tree.MustParse("<p>a</p><p>bc</p>")
	bc := root.Children[1].Children[0]

	o, ok := cursor.MapSticky(root, cursor.NewCaret(bc, 0))
	if !ok || o.Affinity != cursor.Downstream {
		t.Fatalf("got %+v, %v", o, ok)
	}
	if got := cursor.ResolveSelection(root, o); got.Focus.Node != bc || got.Focus.Offset != 0 {
		t.Errorf("resolved to %s", got.Focus)
	}

	mid, _ := cursor.MapSticky(root, cursor.NewCaret(bc, 1))
	if mid.Affinity != cursor.Upstream {
		t.Error("caret inside text should stay upstream")
	}
}

func TestRebase(t *testing.T) {
	root := tree.MustParse("<p>a<b>bc</b></p>")
	clone := root.Clone()
	bc := root.Children[0].Children[1].Children[0]

	sel := cursor.NewSelection(cursor.Point{Node: root, Offset: 0}, cursor.Point{Node: bc, Offset: 1})
	got, ok := cursor.Rebase(sel, root, clone)
	if !ok {
		t.Fatal("Rebase failed")
	}
	if got.Anchor.Node != clone || got.Focus.Node != clone.Children[0].Children[1].Children[0] || got.Focus.Offset != 1 {
		t.Errorf("got %s", got)
	}

	if _, ok := cursor.Rebase(cursor.NewCaret(tree.NewText("x"), 0), root, clone); ok {
		t.Error("Rebase should fail for a foreign node")
	}
}
