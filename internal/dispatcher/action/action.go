// Package action defines the closed set of editor actions and the command
// value that carries one to the dispatcher.
package action

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned by Parse for names outside the action set.
var ErrUnknown = errors.New("action: unknown action")

// Action identifies one user action.
type Action uint8

const (
	// None is the zero action. It is never dispatched.
	None Action = iota

	// Inline toggles.
	Bold
	Italic
	Underline

	// Block toggles.
	Heading1
	Heading2
	Paragraph

	// List toggles.
	UnorderedList
	OrderedList

	// Alignment.
	AlignLeft
	AlignCenter
	AlignRight

	// Prompted insertions.
	Link
	Image

	// Code wraps the selection in a preformatted block.
	Code

	// Input re-sanitizes a tree the host already edited.
	Input

	// Native typing.
	InsertText
	DeleteBackward
	DeleteForward
	Enter

	Undo
	Redo

	// Commit re-sanitizes and emits without touching the selection, as on
	// blur.
	Commit

	count
)

var names = [count]string{
	None:           "none",
	Bold:           "bold",
	Italic:         "italic",
	Underline:      "underline",
	Heading1:       "heading1",
	Heading2:       "heading2",
	Paragraph:      "paragraph",
	UnorderedList:  "unordered-list",
	OrderedList:    "ordered-list",
	AlignLeft:      "align-left",
	AlignCenter:    "align-center",
	AlignRight:     "align-right",
	Link:           "link",
	Image:          "image",
	Code:           "code",
	Input:          "input",
	InsertText:     "insert-text",
	DeleteBackward: "delete-backward",
	DeleteForward:  "delete-forward",
	Enter:          "enter",
	Undo:           "undo",
	Redo:           "redo",
	Commit:         "commit",
}

// String returns the action's name.
func (a Action) String() string {
	if a >= count {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return names[a]
}

// Valid reports whether a is a dispatchable action.
func (a Action) Valid() bool {
	return a > None && a < count
}

// Prompted reports whether the action asks the user for a URL.
func (a Action) Prompted() bool {
	return a == Link || a == Image
}

// Parse returns the action with the given name.
func Parse(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := Bold; a < count; a++ {
		if names[a] == name {
			return a, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// All returns every dispatchable action in declaration order.
func All() []Action {
	out := make([]Action, 0, count-1)
	for a := Bold; a < count; a++ {
		out = append(out, a)
	}
	return out
}

// Toolbar returns the actions shown on the toolbar, left to right.
func Toolbar() []Action {
	return []Action{
		Bold, Italic, Underline,
		Heading1, Heading2, Paragraph,
		UnorderedList, OrderedList,
		AlignLeft, AlignCenter, AlignRight,
		Link, Image, Code,
	}
}

// Source indicates where a command originated.
type Source uint8

const (
	SourceAPI Source = iota
	SourceKeyboard
	SourceToolbar
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceToolbar:
		return "toolbar"
	default:
		return "api"
	}
}

// Command is one action request.
type Command struct {
	Action Action

	// Text is the typed text for InsertText. For Link and Image a non-empty
	// Text is used as the URL and the prompt is skipped.
	Text string

	Source Source
}

// New creates a command for a.
func New(a Action) Command {
	return Command{Action: a}
}

// WithText returns a copy of the command carrying text.
func (c Command) WithText(text string) Command {
	c.Text = text
	return c
}

// WithSource returns a copy of the command with the source set.
func (c Command) WithSource(s Source) Command {
	c.Source = s
	return c
}

// String returns a short description for logs.
func (c Command) String() string {
	if c.Text == "" {
		return c.Action.String()
	}
	return fmt.Sprintf("%s(%q)", c.Action, c.Text)
}
