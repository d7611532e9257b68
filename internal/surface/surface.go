package surface

import (
	"sync"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// Motion is a caret movement.
type Motion uint8

// Caret motions.
const (
	Left Motion = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	DocStart
	DocEnd
)

// Surface is a headless editing surface.
//
// All methods are safe for concurrent use. Callbacks queued with
// AfterRender run on the goroutine calling Render, without the surface
// lock held.
type Surface struct {
	mu sync.Mutex

	root     *tree.Node
	staged   *tree.Node
	sel      cursor.Selection
	focused  bool
	detached bool
	scroll   int

	width    int
	height   int
	tabWidth int
	cache    *layout.Cache

	queue   []func()
	renders uint64

	logger *logging.Logger
}

// New creates an empty attached surface.
func New(opts ...Option) *Surface {
	s := defaults()
	for _, opt := range opts {
		opt(s)
	}
	s.root = tree.NewDocument()
	s.cache = layout.NewCache(layout.NewEngine(s.width, s.tabWidth), DefaultCacheSize)
	s.logger = s.logger.WithComponent("surface")
	return s
}

// Commit stages root to be displayed at the next render. A later commit
// replaces an earlier one that has not been rendered yet.
func (s *Surface) Commit(root *tree.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached || root == nil {
		return
	}
	s.staged = root
}

// Render displays the staged tree, if any, then runs the callbacks queued
// before the call. Callbacks queued while they run wait for the next
// render. A detached surface drops its queue.
func (s *Surface) Render() {
	s.mu.Lock()
	if s.detached {
		s.queue = nil
		s.mu.Unlock()
		return
	}
	if s.staged != nil {
		s.swap(s.staged)
		s.staged = nil
	}
	queue := s.queue
	s.queue = nil
	s.renders++
	s.mu.Unlock()

	if len(queue) > 0 {
		s.logger.Debug("render", "callbacks", len(queue))
	}
	for _, fn := range queue {
		fn()
	}
}

// swap installs root, carrying the selection over by offsets.
func (s *Surface) swap(root *tree.Node) {
	old := s.root
	s.root = root
	if s.sel.IsZero() {
		s.clampScroll()
		return
	}
	if o, ok := cursor.MapSticky(old, s.sel); ok {
		s.sel = cursor.ResolveSelection(root, o.Clamp(cursor.TotalLen(root)))
	} else {
		s.sel = cursor.Selection{}
	}
	s.clampScroll()
}

// AfterRender queues fn to run once after the next render.
func (s *Surface) AfterRender(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued callbacks.
func (s *Surface) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Renders returns the number of completed renders.
func (s *Surface) Renders() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Root returns the displayed tree.
func (s *Surface) Root() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Attached reports whether the surface has not been detached.
func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.detached
}

// Detach tears the surface down. Queued callbacks are dropped and later
// renders do nothing.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.detached = true
	s.focused = false
	s.queue = nil
	s.staged = nil
	s.cache.InvalidateAll()
	s.logger.Debug("detached")
}

// Selection returns the active selection.
func (s *Surface) Selection() cursor.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetSelection replaces the active selection.
func (s *Surface) SetSelection(sel cursor.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
}

// Focus gives the surface input focus.
func (s *Surface) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.detached {
		s.focused = true
	}
}

// Blur removes input focus.
func (s *Surface) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = false
}

// Focused reports whether the surface has input focus.
func (s *Surface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Layout returns the layout of the displayed tree.
func (s *Surface) Layout() *layout.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(s.root)
}

// CaretRect returns the rectangle of the caret at pt, in surface units.
func (s *Surface) CaretRect(pt cursor.Point) (cursor.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, col, ok := s.cache.Get(s.root).Locate(pt)
	if !ok {
		return cursor.Rect{}, false
	}
	return cursor.Rect{
		Top:    row * RowHeight,
		Left:   col,
		Bottom: (row + 1) * RowHeight,
		Right:  col + 1,
	}, true
}

// Viewport returns the visible rectangle in surface units.
func (s *Surface) Viewport() cursor.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cursor.Rect{
		Top:    s.scroll,
		Bottom: s.scroll + s.height*RowHeight,
		Right:  s.width,
	}
}

// ScrollTop returns the vertical scroll position in surface units.
func (s *Surface) ScrollTop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll
}

// SetScrollTop scrolls to top, clamped to the scrollable range.
func (s *Surface) SetScrollTop(top int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = top
	s.clampScroll()
}

func (s *Surface) clampScroll() {
	limit := max(0, s.cache.Get(s.root).Rows()*RowHeight-s.height*RowHeight)
	s.scroll = min(max(s.scroll, 0), limit)
}

// FirstRow returns the first layout row in view.
func (s *Surface) FirstRow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll / RowHeight
}

// Size returns the surface size in columns and rows.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the surface size. The layout is recomputed at the new
// width.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width > 0 && width != s.width {
		s.width = width
		s.cache.SetEngine(layout.NewEngine(width, s.tabWidth))
	}
	if height > 0 {
		s.height = height
	}
	s.clampScroll()
}

// MoveCaret moves the focus of the selection. Unless extend is set the
// selection collapses onto the new focus. It reports false when there is
// no selection to move.
func (s *Surface) MoveCaret(m Motion, extend bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached || s.sel.IsZero() {
		return false
	}
	doc := s.cache.Get(s.root)

	var (
		pt cursor.Point
		ok bool
	)
	switch m {
	case Left:
		pt, ok = doc.Step(s.sel.Focus, -1)
	case Right:
		pt, ok = doc.Step(s.sel.Focus, 1)
	case Up, Down, LineStart, LineEnd:
		var row, col int
		if row, col, ok = doc.Locate(s.sel.Focus); !ok {
			break
		}
		switch m {
		case Up:
			row--
		case Down:
			row++
		case LineStart:
			col = 0
		case LineEnd:
			col = s.width + doc.Lines[row].Width
		}
		if row < 0 || row >= doc.Rows() {
			return false
		}
		pt, ok = doc.PointAt(row, col)
	case DocStart:
		pt = cursor.Resolve(s.root, 0)
		ok = true
	case DocEnd:
		pt = cursor.Resolve(s.root, cursor.TotalLen(s.root))
		ok = true
	}
	if !ok {
		return false
	}

	if extend {
		s.sel = cursor.NewSelection(s.sel.Anchor, pt)
	} else {
		s.sel = cursor.NewSelection(pt, pt)
	}
	return true
}

// Click places the caret at a layout row and column.
func (s *Surface) Click(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return false
	}
	pt, ok := s.cache.Get(s.root).PointAt(row, col)
	if !ok {
		return false
	}
	s.sel = cursor.NewSelection(pt, pt)
	s.focused = true
	return true
}
