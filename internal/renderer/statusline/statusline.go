// Package statusline draws the bottom row of the terminal editor: file
// state, caret position, messages and prompts.
package statusline

import (
	"strconv"

	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/renderer/backend"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders one status row.
type StatusLine struct {
	filename string
	modified bool
	readOnly bool
	row      int // 1-indexed
	col      int // 1-indexed
	rows     int
	first    int
	height   int

	promptActive bool
	promptLabel  string
	promptBuffer string

	message     string
	messageType MessageType
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetReadOnly updates the read-only indicator.
func (s *StatusLine) SetReadOnly(readOnly bool) {
	s.readOnly = readOnly
}

// SetPosition updates the caret position, 0-indexed.
func (s *StatusLine) SetPosition(row, col int) {
	s.row = row + 1
	s.col = col + 1
}

// SetScroll records the layout size and the visible window for the
// scroll indicator.
func (s *StatusLine) SetScroll(rows, first, height int) {
	s.rows, s.first, s.height = rows, first, height
}

// SetPrompt shows label and the text typed so far in place of the status.
func (s *StatusLine) SetPrompt(label, buffer string) {
	s.promptActive = true
	s.promptLabel = label
	s.promptBuffer = buffer
}

// ClearPrompt returns to the status display.
func (s *StatusLine) ClearPrompt() {
	s.promptActive = false
	s.promptLabel = ""
	s.promptBuffer = ""
}

// PromptActive reports whether a prompt is shown.
func (s *StatusLine) PromptActive() bool {
	return s.promptActive
}

// SetMessage displays a message until it is cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() string {
	return s.message
}

// Render draws the status line on row, width columns wide. When a prompt
// is active the cursor is placed after the typed text.
func (s *StatusLine) Render(b backend.Backend, row, width int) {
	switch {
	case s.promptActive:
		backend.Fill(b, 0, row, width, " ", 0)
		x := backend.DrawText(b, 0, row, width, s.promptLabel, backend.AttrBold)
		x = backend.DrawText(b, x, row, width, s.promptBuffer, 0)
		b.ShowCursor(min(x, width-1), row)
	case s.message != "":
		attr := backend.Attr(0)
		switch s.messageType {
		case MessageError:
			attr = backend.AttrBold | backend.AttrReverse
		case MessageWarning:
			attr = backend.AttrBold
		}
		backend.Fill(b, 0, row, width, " ", 0)
		backend.DrawText(b, 0, row, width, s.message, attr)
	default:
		s.renderStatusBar(b, row, width)
	}
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row, width int) {
	bar := backend.AttrReverse
	backend.Fill(b, 0, row, width, " ", bar)

	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.modified {
		name += " [+]"
	}
	if s.readOnly {
		name += " [RO]"
	}

	pos := s.formatPosition()
	posStart := width - uniseg.StringWidth(pos) - 1
	backend.DrawText(b, 1, row, max(1, posStart-1), name, bar)
	if posStart > 1 {
		backend.DrawText(b, posStart, row, width, pos, bar)
	}
}

// formatPosition returns "Ln 3, Col 7 | 40%".
func (s *StatusLine) formatPosition() string {
	row, col := max(s.row, 1), max(s.col, 1)
	result := "Ln " + strconv.Itoa(row) + ", Col " + strconv.Itoa(col)

	if s.rows <= s.height || s.height == 0 {
		return result + " | All"
	}
	switch {
	case s.first == 0:
		return result + " | Top"
	case s.first+s.height >= s.rows:
		return result + " | Bot"
	default:
		return result + " | " + strconv.Itoa(s.first*100/(s.rows-s.height)) + "%"
	}
}
