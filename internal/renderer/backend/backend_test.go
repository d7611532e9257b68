package backend

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestEventName(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Type: EventKey, Key: KeyRune, Rune: 'b', Mod: ModCtrl}, "ctrl+b"},
		{Event{Type: EventKey, Key: KeyRune, Rune: 'B', Mod: ModCtrl}, "ctrl+b"},
		{Event{Type: EventKey, Key: KeyRune, Rune: '1', Mod: ModAlt}, "alt+1"},
		{Event{Type: EventKey, Key: KeyRune, Rune: 'A', Mod: ModShift}, "A"},
		{Event{Type: EventKey, Key: KeyLeft, Mod: ModShift}, "shift+left"},
		{Event{Type: EventKey, Key: KeyHome, Mod: ModCtrl}, "ctrl+home"},
		{Event{Type: EventKey, Key: KeyF5}, "f5"},
		{Event{Type: EventKey, Key: KeyF12}, "f12"},
		{Event{Type: EventMouse}, ""},
	}
	for _, tt := range tests {
		if got := tt.ev.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestPrintable(t *testing.T) {
	if !(Event{Type: EventKey, Key: KeyRune, Rune: 'x'}).Printable() {
		t.Error("plain rune should be printable")
	}
	if (Event{Type: EventKey, Key: KeyRune, Rune: 'x', Mod: ModAlt}).Printable() {
		t.Error("alt rune should not be printable")
	}
	if (Event{Type: EventKey, Key: KeyEnter}).Printable() {
		t.Error("enter should not be printable")
	}
}

func TestConvertKeyEvent(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), "ctrl+b"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "backspace"},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModAlt), "alt+q"},
		{tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone), "f3"},
	}
	for _, tt := range tests {
		if got := convertEvent(tt.ev).Name(); got != tt.want {
			t.Errorf("converted key = %q, want %q", got, tt.want)
		}
	}

	ev := convertEvent(tcell.NewEventInterrupt("reload"))
	if ev.Type != EventInterrupt || ev.Data != "reload" {
		t.Errorf("interrupt = %+v", ev)
	}
}

func TestAttrRoundTrip(t *testing.T) {
	for _, a := range []Attr{0, AttrBold, AttrItalic, AttrBold | AttrReverse | AttrDim} {
		if got := convertTcellStyle(convertAttr(a)); got != a {
			t.Errorf("attr %b came back as %b", a, got)
		}
	}
}

func TestNullCells(t *testing.T) {
	b := NewNull(6, 2)
	b.SetCell(0, 0, "a", AttrBold)
	b.SetCell(1, 0, "世", 0)
	b.SetCell(3, 0, "b", 0)
	b.SetCell(9, 9, "x", 0)

	if got := b.Line(0); got != "a世b" {
		t.Errorf("line = %q", got)
	}
	if text, attr := b.Cell(0, 0); text != "a" || !attr.Has(AttrBold) {
		t.Errorf("cell = %q %b", text, attr)
	}

	b.ShowCursor(2, 1)
	if x, y, ok := b.Cursor(); x != 2 || y != 1 || !ok {
		t.Errorf("cursor = %d,%d %v", x, y, ok)
	}
	b.HideCursor()
	if _, _, ok := b.Cursor(); ok {
		t.Error("cursor should be hidden")
	}

	b.Clear()
	if b.Line(0) != "" {
		t.Error("clear should blank the display")
	}
}

func TestNullEvents(t *testing.T) {
	b := NewNull(4, 4)
	if err := b.PostEvent(Event{Type: EventInterrupt, Data: 1}); err != nil {
		t.Fatal(err)
	}
	if ev := b.PollEvent(); ev.Type != EventInterrupt || ev.Data != 1 {
		t.Errorf("polled %+v", ev)
	}

	b.Resize(8, 3)
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 8 {
		t.Errorf("polled %+v", ev)
	}

	b.Shutdown()
	b.Shutdown()
	if ev := b.PollEvent(); ev.Type != EventClosed {
		t.Errorf("after shutdown polled %+v", ev)
	}
	if err := b.PostEvent(Event{Type: EventKey}); !errors.Is(err, ErrClosed) {
		t.Errorf("post after shutdown: %v", err)
	}
}

func TestDrawText(t *testing.T) {
	b := NewNull(6, 1)
	Fill(b, 0, 0, 6, "-", 0)
	if end := DrawText(b, 1, 0, 5, "a世bc", AttrBold); end != 5 {
		t.Errorf("end = %d", end)
	}
	if got := b.Line(0); got != "-a世b-" {
		t.Errorf("line = %q", got)
	}
	if end := DrawText(b, 0, 0, 2, "世世", 0); end != 2 {
		t.Errorf("clipped end = %d", end)
	}
}
