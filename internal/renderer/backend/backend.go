// Package backend abstracts the terminal the editor draws on.
package backend

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Errors returned by backends.
var (
	ErrClosed    = errors.New("backend is closed")
	ErrQueueFull = errors.New("event queue is full")
)

// Attr is a set of cell attributes.
type Attr uint8

// Cell attributes.
const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrDim
)

// Has reports whether every attribute in a is set.
func (at Attr) Has(a Attr) bool {
	return at&a == a
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventFocus
	// EventInterrupt carries a value posted by the application.
	EventInterrupt
	// EventClosed is returned once the backend has shut down.
	EventClosed
)

// Event is a terminal event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int

	// Focused is set for focus gained and for the start of a paste.
	Focused bool

	// Data is the payload of an interrupt.
	Data any
}

// Key is a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // use Rune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
}

// String returns the key name.
func (k Key) String() string {
	if k >= KeyF1 && k <= KeyF12 {
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k == KeyRune {
		return "rune"
	}
	return "none"
}

// ModMask is the modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Name returns the key name of a key event in keymap form: lowercase,
// modifiers first, such as "ctrl+b", "alt+1" or "shift+left". Shift is
// not reported for printable runes.
func (e Event) Name() string {
	if e.Type != EventKey {
		return ""
	}
	var sb strings.Builder
	if e.Mod.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if e.Mod.Has(ModAlt) || e.Mod.Has(ModMeta) {
		sb.WriteString("alt+")
	}
	if e.Key == KeyRune {
		r := e.Rune
		if e.Mod.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
		return sb.String()
	}
	if e.Mod.Has(ModShift) {
		sb.WriteString("shift+")
	}
	sb.WriteString(e.Key.String())
	return sb.String()
}

// Printable reports whether the event types a character.
func (e Event) Printable() bool {
	return e.Type == EventKey && e.Key == KeyRune &&
		!e.Mod.Has(ModCtrl) && !e.Mod.Has(ModAlt) && !e.Mod.Has(ModMeta) &&
		unicode.IsPrint(e.Rune)
}

// Backend is a cell-addressed display with an event queue.
type Backend interface {
	// Init prepares the backend. It must be called first.
	Init() error

	// Shutdown releases the backend. PollEvent then returns EventClosed.
	Shutdown()

	Size() (width, height int)

	// SetCell draws a grapheme cluster at x, y. Wide clusters cover the
	// following cells. Positions outside the display are ignored.
	SetCell(x, y int, text string, attr Attr)

	// Cell returns the cluster and attributes at x, y.
	Cell(x, y int) (string, Attr)

	Clear()

	// Show flushes drawing to the display.
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues an event without blocking.
	PostEvent(ev Event) error
}
