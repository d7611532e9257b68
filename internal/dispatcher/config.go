package dispatcher

import "github.com/dshills/inkwell/internal/engine/cursor"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// ScrollMargin is the context kept around the caret when a deferred
	// restore scrolls it into view.
	ScrollMargin int

	// MaxInsertRunes caps the text of a single insert-text command.
	// Zero means no limit.
	MaxInsertRunes int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		ScrollMargin:     cursor.DefaultScrollMargin,
		MaxInsertRunes:   0,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithScrollMargin returns a copy of the config with the scroll margin set.
func (c Config) WithScrollMargin(margin int) Config {
	c.ScrollMargin = margin
	return c
}

// WithMaxInsertRunes returns a copy of the config with the insert limit set.
func (c Config) WithMaxInsertRunes(max int) Config {
	c.MaxInsertRunes = max
	return c
}
