package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.EnableFocus()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, text string, attr Attr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(text)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], convertAttr(attr))
}

func (t *Terminal) Cell(x, y int) (string, Attr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, combc, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return string(append([]rune{mainc}, combc...)), convertTcellStyle(style)
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventClosed}
	}
	return convertEvent(ev)
}

// PostEvent posts interrupts and key events. Other event types are
// ignored.
func (t *Terminal) PostEvent(ev Event) error {
	switch ev.Type {
	case EventInterrupt:
		return t.screen.PostEvent(tcell.NewEventInterrupt(ev.Data))
	case EventKey:
		return t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, convertToTcellMod(ev.Mod)))
	}
	return nil
}

func convertAttr(a Attr) tcell.Style {
	style := tcell.StyleDefault
	if a.Has(AttrBold) {
		style = style.Bold(true)
	}
	if a.Has(AttrItalic) {
		style = style.Italic(true)
	}
	if a.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if a.Has(AttrReverse) {
		style = style.Reverse(true)
	}
	if a.Has(AttrDim) {
		style = style.Dim(true)
	}
	return style
}

func convertTcellStyle(ts tcell.Style) Attr {
	_, _, attrs := ts.Decompose()

	var a Attr
	if attrs&tcell.AttrBold != 0 {
		a |= AttrBold
	}
	if attrs&tcell.AttrItalic != 0 {
		a |= AttrItalic
	}
	if attrs&tcell.AttrUnderline != 0 {
		a |= AttrUnderline
	}
	if attrs&tcell.AttrReverse != 0 {
		a |= AttrReverse
	}
	if attrs&tcell.AttrDim != 0 {
		a |= AttrDim
	}
	return a
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, r, mod := convertKey(e.Key()), e.Rune(), convertMod(e.Modifiers())
		if k := e.Key(); key == KeyNone && k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			key, r, mod = KeyRune, 'a'+rune(k-tcell.KeyCtrlA), mod|ModCtrl
		}
		return Event{Type: EventKey, Key: key, Rune: r, Mod: mod}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:   EventMouse,
			MouseX: x,
			MouseY: y,
			Button: convertMouseButton(e.Buttons()),
			Mod:    convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventPaste:
		// Pasted text arrives as key events between start and end.
		return Event{Type: EventPaste, Focused: e.Start()}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey maps named keys. Control letters are handled by the caller;
// Enter, Tab and Backspace share codes with them and are matched first.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBacktab:
		return KeyBacktab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyInsert:
		return KeyInsert
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return KeyF1 + Key(k-tcell.KeyF1)
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBacktab:
		return tcell.KeyBacktab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyDelete:
		return tcell.KeyDelete
	case KeyInsert:
		return tcell.KeyInsert
	case KeyHome:
		return tcell.KeyHome
	case KeyEnd:
		return tcell.KeyEnd
	case KeyPageUp:
		return tcell.KeyPgUp
	case KeyPageDown:
		return tcell.KeyPgDn
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	}
	if k >= KeyF1 && k <= KeyF12 {
		return tcell.KeyF1 + tcell.Key(k-KeyF1)
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	if m&ModMeta != 0 {
		result |= tcell.ModMeta
	}
	return result
}

func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}
