package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidDirection indicates a writing direction other than ltr or rtl.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrInvalidValue indicates a setting outside its allowed range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidKey indicates a key binding that cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")
)

// ValidationError describes a setting that failed validation.
type ValidationError struct {
	// Path is the dotted setting path, such as "editor.direction".
	Path    string
	Value   any
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Unwrap returns the sentinel error for the failure.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(path string, value any, msg string) error {
	return &ValidationError{Path: path, Value: value, Message: msg, Err: ErrInvalidValue}
}
