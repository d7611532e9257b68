package engine

import (
	"github.com/dshills/inkwell/internal/dispatcher"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/logging"
)

// Default configuration values.
const (
	DefaultDisplayHeight = 15
	DefaultScrollMargin  = cursor.DefaultScrollMargin
	DefaultHistoryDepth  = history.DefaultMaxEntries
)

// Direction is the writing direction. It only affects toolbar layout.
type Direction string

// Writing directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == LTR || d == RTL
}

// Option configures an Editor during creation.
type Option func(*Editor)

// WithContent sets the initial content. It is parsed and sanitized like
// SetContent.
func WithContent(markup string) Option {
	return func(e *Editor) {
		e.initContent = markup
	}
}

// WithDirection sets the writing direction.
func WithDirection(d Direction) Option {
	return func(e *Editor) {
		if d.Valid() {
			e.direction = d
		}
	}
}

// WithDisplayHeight sets the fixed height of the editing area in rows.
func WithDisplayHeight(rows int) Option {
	return func(e *Editor) {
		if rows > 0 {
			e.displayHeight = rows
		}
	}
}

// WithScrollMargin sets the context kept around the caret when a restore
// scrolls it into view.
func WithScrollMargin(margin int) Option {
	return func(e *Editor) {
		if margin >= 0 {
			e.scrollMargin = margin
		}
	}
}

// WithPolicy sets the sanitization policy.
func WithPolicy(p *policy.Policy) Option {
	return func(e *Editor) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHistoryDepth sets the maximum number of undo entries.
func WithHistoryDepth(depth int) Option {
	return func(e *Editor) {
		if depth > 0 {
			e.historyDepth = depth
		}
	}
}

// WithEventBus shares an event bus between editors. The editor does not
// close a bus it did not create.
func WithEventBus(b *event.Bus) Option {
	return func(e *Editor) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithDispatcherConfig sets the dispatcher configuration. Its scroll
// margin is replaced by the editor's.
func WithDispatcherConfig(c dispatcher.Config) Option {
	return func(e *Editor) {
		e.dispatchConfig = c
	}
}

// WithReadOnly creates a read-only editor.
// Every action except Commit is rejected until SetReadOnly(false).
func WithReadOnly() Option {
	return func(e *Editor) {
		e.readOnly.SetReadOnly(true)
	}
}
