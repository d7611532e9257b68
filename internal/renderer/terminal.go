package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/statusline"
	"github.com/dshills/inkwell/internal/surface"
)

// Screen rows above the editing area: the toolbar and the top border.
const (
	toolbarRow = 0
	areaTop    = 2
)

// Keymap resolves key names such as "ctrl+b" to actions.
type Keymap interface {
	Lookup(key string) (action.Action, bool)
}

// SaveFunc writes the committed content.
type SaveFunc func(markup string) error

// Option configures a Terminal.
type Option func(*Terminal)

// WithKeymap sets the key bindings for toolbar actions.
func WithKeymap(k Keymap) Option {
	return func(t *Terminal) {
		if k != nil {
			t.keymap = k
		}
	}
}

// WithSave sets the function called on ctrl+s.
func WithSave(fn SaveFunc) Option {
	return func(t *Terminal) {
		t.save = fn
	}
}

// WithFilename sets the name shown on the status row.
func WithFilename(name string) Option {
	return func(t *Terminal) {
		t.status.SetFilename(name)
	}
}

// WithFixedWidth keeps the surface width instead of following the
// terminal.
func WithFixedWidth() Option {
	return func(t *Terminal) {
		t.fixedWidth = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

type noKeys struct{}

func (noKeys) Lookup(string) (action.Action, bool) { return action.None, false }

// Interrupt payloads.
type (
	contentUpdate struct{ markup string }
	stopRequest   struct{ err error }
)

// Terminal is a terminal editing host. Apart from Update, its methods must
// be called from the goroutine running the loop.
type Terminal struct {
	backend backend.Backend
	editor  *engine.Editor
	surface *surface.Surface
	keymap  Keymap
	status  *statusline.StatusLine
	logger  *logging.Logger
	save    SaveFunc

	fixedWidth bool
	maxHeight  int
	started    bool
	modified   bool
	lastSaved  string
	quit       bool
	err        error

	pasting  bool
	paste    strings.Builder
	deferred []backend.Event
	unsub    func()
}

// New attaches s to the editor and returns a host drawing them on b.
func New(b backend.Backend, ed *engine.Editor, s *surface.Surface, opts ...Option) (*Terminal, error) {
	t := &Terminal{
		backend: b,
		editor:  ed,
		surface: s,
		keymap:  noKeys{},
		status:  statusline.New(),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("terminal")

	if err := ed.Attach(s); err != nil {
		return nil, err
	}
	ed.SetPrompter(t)
	unsub, err := ed.OnContentChange(func(string) { t.modified = true })
	if err != nil {
		return nil, err
	}
	t.unsub = unsub
	t.lastSaved = ed.Content()
	_, t.maxHeight = s.Size()
	return t, nil
}

// Close stops listening to the editor. It does not close the editor.
func (t *Terminal) Close() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
}

// Modified reports whether the content changed since it was loaded or
// saved.
func (t *Terminal) Modified() bool {
	return t.modified
}

// Status returns the status line.
func (t *Terminal) Status() *statusline.StatusLine {
	return t.status
}

// Update replaces the content from another goroutine. The change is applied
// by the event loop.
func (t *Terminal) Update(markup string) error {
	return t.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: contentUpdate{markup}})
}

// Run initializes the backend and handles events until the user quits,
// ctx is cancelled or the backend closes. It returns ctx's error when
// cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.backend.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer t.backend.Shutdown()

	stop := context.AfterFunc(ctx, func() {
		err := t.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: stopRequest{ctx.Err()}})
		if err != nil {
			t.logger.Warn("stop request dropped", "error", err)
		}
	})
	defer stop()

	t.Start()
	for t.HandleEvent(t.backend.PollEvent()) {
	}
	return t.err
}

// Start renders the initial content and places the caret at the start of
// the document. It runs once.
func (t *Terminal) Start() {
	if t.started {
		return
	}
	t.started = true
	t.resize(t.backend.Size())
	t.surface.Render()
	if t.surface.Selection().IsZero() {
		pt := cursor.Resolve(t.surface.Root(), 0)
		t.surface.SetSelection(cursor.NewSelection(pt, pt))
	}
	t.surface.Focus()
	t.draw()
}

// HandleEvent processes one event, renders the surface and redraws. It
// returns false once the loop should stop.
func (t *Terminal) HandleEvent(ev backend.Event) bool {
	t.Start()
	t.handle(ev)
	for len(t.deferred) > 0 && !t.quit {
		next := t.deferred[0]
		t.deferred = t.deferred[1:]
		t.handle(next)
	}
	if t.quit {
		return false
	}
	t.surface.Render()
	t.draw()
	return true
}

func (t *Terminal) handle(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		t.handleKey(ev)
	case backend.EventMouse:
		t.handleMouse(ev)
	case backend.EventResize:
		t.resize(ev.Width, ev.Height)
		t.follow()
	case backend.EventPaste:
		t.handlePaste(ev.Focused)
	case backend.EventFocus:
		if ev.Focused {
			t.surface.Focus()
			return
		}
		t.surface.Blur()
		t.dispatch(action.New(action.Commit))
	case backend.EventInterrupt:
		t.handleInterrupt(ev.Data)
	case backend.EventClosed:
		t.quit = true
	}
}

func (t *Terminal) handleInterrupt(data any) {
	switch d := data.(type) {
	case contentUpdate:
		if d.markup == t.lastSaved {
			return
		}
		if err := t.editor.SetContent(d.markup); err != nil {
			t.status.SetMessage("reload failed: "+err.Error(), statusline.MessageError)
			return
		}
		t.lastSaved = d.markup
		t.modified = false
		t.status.SetMessage("reloaded", statusline.MessageInfo)
	case stopRequest:
		t.err = d.err
		t.quit = true
	}
}

func (t *Terminal) handleKey(ev backend.Event) {
	if t.pasting {
		switch ev.Key {
		case backend.KeyRune:
			t.paste.WriteRune(ev.Rune)
		case backend.KeyEnter:
			t.paste.WriteByte('\n')
		case backend.KeyTab:
			t.paste.WriteByte('\t')
		}
		return
	}

	t.status.ClearMessage()
	name := ev.Name()
	switch name {
	case "ctrl+q", "ctrl+c":
		t.quit = true
		return
	case "ctrl+s":
		t.saveContent()
		return
	}
	if a, ok := t.keymap.Lookup(name); ok && a.Valid() {
		t.dispatch(action.New(a).WithSource(action.SourceKeyboard))
		return
	}

	extend := ev.Mod.Has(backend.ModShift)
	switch ev.Key {
	case backend.KeyEnter:
		t.dispatch(action.New(action.Enter).WithSource(action.SourceKeyboard))
	case backend.KeyBackspace:
		t.dispatch(action.New(action.DeleteBackward).WithSource(action.SourceKeyboard))
	case backend.KeyDelete:
		t.dispatch(action.New(action.DeleteForward).WithSource(action.SourceKeyboard))
	case backend.KeyLeft:
		t.move(surface.Left, extend)
	case backend.KeyRight:
		t.move(surface.Right, extend)
	case backend.KeyUp:
		t.move(surface.Up, extend)
	case backend.KeyDown:
		t.move(surface.Down, extend)
	case backend.KeyHome:
		if ev.Mod.Has(backend.ModCtrl) {
			t.move(surface.DocStart, extend)
		} else {
			t.move(surface.LineStart, extend)
		}
	case backend.KeyEnd:
		if ev.Mod.Has(backend.ModCtrl) {
			t.move(surface.DocEnd, extend)
		} else {
			t.move(surface.LineEnd, extend)
		}
	case backend.KeyPageUp:
		t.scrollRows(-t.areaHeight())
	case backend.KeyPageDown:
		t.scrollRows(t.areaHeight())
	case backend.KeyRune:
		if ev.Printable() {
			t.dispatch(action.New(action.InsertText).WithText(string(ev.Rune)).WithSource(action.SourceKeyboard))
		}
	}
}

func (t *Terminal) handlePaste(start bool) {
	if start {
		t.pasting = true
		t.paste.Reset()
		return
	}
	t.pasting = false
	text := t.paste.String()
	t.paste.Reset()
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			t.dispatchRendered(action.New(action.Enter))
		}
		if line != "" {
			t.dispatchRendered(action.New(action.InsertText).WithText(line))
		}
	}
}

// dispatchRendered dispatches cmd and renders so that a following command
// starts from the restored caret.
func (t *Terminal) dispatchRendered(cmd action.Command) {
	t.dispatch(cmd)
	t.surface.Render()
}

func (t *Terminal) handleMouse(ev backend.Event) {
	switch ev.Button {
	case backend.MouseLeft:
		if ev.MouseY == toolbarRow {
			if a, ok := hitToolbar(t.toolbar(), ev.MouseX); ok {
				t.dispatch(action.New(a).WithSource(action.SourceToolbar))
			}
			return
		}
		row := ev.MouseY - areaTop
		if row < 0 || row >= t.areaHeight() || ev.MouseX < 1 {
			return
		}
		t.surface.Click(t.surface.FirstRow()+row, ev.MouseX-1)
	case backend.MouseWheelUp:
		t.scrollRows(-1)
	case backend.MouseWheelDown:
		t.scrollRows(1)
	}
}

func (t *Terminal) dispatch(cmd action.Command) {
	res := t.editor.Dispatch(cmd)
	switch res.Status {
	case handler.StatusError:
		msg := cmd.Action.String() + " failed"
		if res.Error != nil {
			msg += ": " + res.Error.Error()
		}
		t.logger.Warn("dispatch failed", "action", cmd.Action.String(), "error", res.Error)
		t.status.SetMessage(msg, statusline.MessageError)
	case handler.StatusCancelled:
		t.status.SetMessage(res.Message, statusline.MessageInfo)
	}
}

func (t *Terminal) saveContent() {
	if t.save == nil {
		t.status.SetMessage("nowhere to save", statusline.MessageWarning)
		return
	}
	t.dispatch(action.New(action.Commit))
	markup := t.editor.Content()
	if err := t.save(markup); err != nil {
		t.logger.Error("save failed", "error", err)
		t.status.SetMessage("save failed: "+err.Error(), statusline.MessageError)
		return
	}
	t.lastSaved = markup
	t.modified = false
	t.status.SetMessage(fmt.Sprintf("saved %d bytes", len(markup)), statusline.MessageInfo)
}

func (t *Terminal) move(m surface.Motion, extend bool) {
	if t.surface.MoveCaret(m, extend) {
		t.follow()
	}
}

// follow scrolls the least amount that brings the caret into view.
func (t *Terminal) follow() {
	row, _, ok := t.caret()
	if !ok {
		return
	}
	first, height := t.surface.FirstRow(), t.areaHeight()
	switch {
	case row < first:
		t.surface.SetScrollTop(row * surface.RowHeight)
	case row >= first+height:
		t.surface.SetScrollTop((row - height + 1) * surface.RowHeight)
	}
}

func (t *Terminal) scrollRows(n int) {
	t.surface.SetScrollTop(t.surface.ScrollTop() + n*surface.RowHeight)
}

// resize fits the editing area to a screen of the given size. The area is
// at most the configured height and leaves room for the frame and the
// status row.
func (t *Terminal) resize(width, height int) {
	w := 0
	if !t.fixedWidth && width > 2 {
		w = width - 2
	}
	rows := t.maxHeight
	if height > 0 {
		rows = max(1, min(t.maxHeight, height-areaTop-2))
	}
	t.surface.Resize(w, rows)
}

func (t *Terminal) areaHeight() int {
	_, h := t.surface.Size()
	return h
}

func (t *Terminal) toolbar() []toolbarItem {
	w, _ := t.backend.Size()
	return layoutToolbar(w, t.editor.Direction() == engine.RTL)
}

// caret returns the layout row and column of the selection focus.
func (t *Terminal) caret() (row, col int, ok bool) {
	sel := t.surface.Selection()
	if sel.IsZero() {
		return 0, 0, false
	}
	rect, ok := t.surface.CaretRect(sel.Focus)
	if !ok {
		return 0, 0, false
	}
	return rect.Top / surface.RowHeight, rect.Left, true
}

func (t *Terminal) draw() {
	b := t.backend
	w, _ := b.Size()
	sw, height := t.surface.Size()

	b.Clear()
	drawToolbar(b, t.toolbar(), toolbarRow)
	t.drawFrame(sw, height)
	t.drawContent(sw, height)

	doc := t.surface.Layout()
	row, col, ok := t.caret()
	if ok {
		t.status.SetPosition(row, col)
	}
	t.status.SetModified(t.modified)
	t.status.SetReadOnly(t.editor.ReadOnly())
	t.status.SetScroll(doc.Rows(), t.surface.FirstRow(), height)
	t.status.Render(b, areaTop+height+1, w)

	b.Show()
}

func (t *Terminal) drawFrame(sw, height int) {
	b := t.backend
	right := sw + 1
	top, bottom := areaTop-1, areaTop+height

	b.SetCell(0, top, string(tcell.RuneULCorner), 0)
	b.SetCell(right, top, string(tcell.RuneURCorner), 0)
	b.SetCell(0, bottom, string(tcell.RuneLLCorner), 0)
	b.SetCell(right, bottom, string(tcell.RuneLRCorner), 0)
	backend.Fill(b, 1, top, right, string(tcell.RuneHLine), 0)
	backend.Fill(b, 1, bottom, right, string(tcell.RuneHLine), 0)
	for y := areaTop; y < bottom; y++ {
		b.SetCell(0, y, string(tcell.RuneVLine), 0)
		b.SetCell(right, y, string(tcell.RuneVLine), 0)
	}
}

func (t *Terminal) drawContent(sw, height int) {
	b := t.backend
	doc := t.surface.Layout()
	first := t.surface.FirstRow()
	selected := t.selectionTest(doc)

	for r := 0; r < height && first+r < doc.Rows(); r++ {
		for _, c := range doc.Lines[first+r].Cells {
			if c.Text == "" || c.Col+c.Width > sw {
				continue
			}
			attr := cellAttr(c.Style)
			if selected(c) {
				attr |= backend.AttrReverse
			}
			b.SetCell(1+c.Col, areaTop+r, c.Text, attr)
		}
	}

	if t.status.PromptActive() {
		return
	}
	row, col, ok := t.caret()
	if !ok || !t.surface.Focused() || row < first || row >= first+height {
		b.HideCursor()
		return
	}
	b.ShowCursor(1+min(col, sw-1), areaTop+row-first)
}

// selectionTest returns a predicate reporting whether a cell lies inside
// a non-collapsed selection.
func (t *Terminal) selectionTest(doc *layout.Document) func(layout.Cell) bool {
	none := func(layout.Cell) bool { return false }
	sel := t.surface.Selection()
	if sel.IsZero() || sel.IsCollapsed() {
		return none
	}
	root := doc.Root()
	o, ok := cursor.Map(root, sel)
	if !ok {
		return none
	}
	starts := make(map[*tree.Node]int)
	return func(c layout.Cell) bool {
		if c.Node == nil || !c.Node.IsText() {
			return false
		}
		start, seen := starts[c.Node]
		if !seen {
			m, ok := cursor.Map(root, cursor.NewCaret(c.Node, 0))
			if !ok {
				return false
			}
			start = m.Start
			starts[c.Node] = start
		}
		at := start + c.Offset
		return at >= o.Start && at < o.End
	}
}

// Prompt asks for a value on the status row. Enter accepts, Escape or
// ctrl+c cancels. Content updates that arrive meanwhile are applied after
// the prompt closes.
func (t *Terminal) Prompt(a action.Action, message string) (string, bool) {
	label := message
	if label == "" {
		label = a.String()
	}
	label += ": "

	var buf []rune
	defer t.status.ClearPrompt()
	for {
		t.status.SetPrompt(label, string(buf))
		t.draw()

		ev := t.backend.PollEvent()
		switch ev.Type {
		case backend.EventClosed:
			t.quit = true
			return "", false
		case backend.EventInterrupt:
			if _, stop := ev.Data.(stopRequest); stop {
				t.handleInterrupt(ev.Data)
				return "", false
			}
			t.deferred = append(t.deferred, ev)
		case backend.EventResize:
			t.resize(ev.Width, ev.Height)
		case backend.EventKey:
			if ev.Name() == "ctrl+c" {
				return "", false
			}
			switch ev.Key {
			case backend.KeyEnter:
				return string(buf), true
			case backend.KeyEscape:
				return "", false
			case backend.KeyBackspace:
				if len(buf) > 0 {
					buf = buf[:len(buf)-1]
				}
			case backend.KeyRune:
				if ev.Printable() {
					buf = append(buf, ev.Rune)
				}
			}
		}
	}
}
