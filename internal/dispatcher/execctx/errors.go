package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates the editor is required but not set.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrNotPrepared indicates the working tree has not been made.
	ErrNotPrepared = errors.New("execution context: working tree not prepared")
)
