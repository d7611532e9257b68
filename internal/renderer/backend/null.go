package backend

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

type nullCell struct {
	text string
	attr Attr
	// cont marks a cell covered by a wide cluster to its left.
	cont bool
}

// Null is an in-memory backend for tests and headless runs.
type Null struct {
	mu sync.Mutex

	width, height int
	cells         [][]nullCell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewNull creates an in-memory backend of the given size.
func NewNull(width, height int) *Null {
	b := &Null{
		width:  width,
		height: height,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	b.cells = grid(width, height)
	return b
}

func grid(width, height int) [][]nullCell {
	cells := make([][]nullCell, height)
	for y := range cells {
		cells[y] = make([]nullCell, width)
		for x := range cells[y] {
			cells[y][x] = nullCell{text: " "}
		}
	}
	return cells
}

func (b *Null) Init() error { return nil }

func (b *Null) Shutdown() {
	b.once.Do(func() { close(b.done) })
}

func (b *Null) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Null) SetCell(x, y int, text string, attr Attr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	if text == "" {
		text = " "
	}
	b.cells[y][x] = nullCell{text: text, attr: attr}
	for i := 1; i < uniseg.StringWidth(text) && x+i < b.width; i++ {
		b.cells[y][x+i] = nullCell{attr: attr, cont: true}
	}
}

func (b *Null) Cell(x, y int) (string, Attr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return "", 0
	}
	c := b.cells[y][x]
	return c.text, c.attr
}

func (b *Null) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = grid(b.width, b.height)
}

func (b *Null) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

func (b *Null) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY, b.cursorVisible = x, y, true
}

func (b *Null) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

func (b *Null) PollEvent() Event {
	select {
	case <-b.done:
		return Event{Type: EventClosed}
	case ev := <-b.events:
		return ev
	}
}

func (b *Null) PostEvent(ev Event) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Line returns row y as text with trailing spaces removed.
func (b *Null) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if !c.cont {
			sb.WriteString(c.text)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// Cursor returns the cursor position and visibility.
func (b *Null) Cursor() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Shows returns the number of flushes.
func (b *Null) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Resize changes the size, clears the display and queues a resize event.
func (b *Null) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.cells = grid(width, height)
	b.mu.Unlock()
	_ = b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// DrawText draws text from column x on row y, stopping before limit. It
// returns the column after the last cluster drawn.
func DrawText(b Backend, x, y, limit int, text string, attr Attr) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		b.SetCell(x, y, g.Str(), attr)
		x += w
	}
	return x
}

// Fill draws text repeatedly across columns [x, limit) of row y.
func Fill(b Backend, x, y, limit int, text string, attr Attr) {
	for ; x < limit; x++ {
		b.SetCell(x, y, text, attr)
	}
}
