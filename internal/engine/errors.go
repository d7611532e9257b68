package engine

import "errors"

// Errors returned by editor operations.
var (
	// ErrClosed indicates the editor was closed.
	ErrClosed = errors.New("editor is closed")

	// ErrNoSurface indicates an operation needs an attached surface.
	ErrNoSurface = errors.New("no surface attached")
)
