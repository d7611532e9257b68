package handler

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/format"
)

// ResultStatus indicates the outcome of an action.
type ResultStatus uint8

const (
	// StatusOK indicates the working tree should be committed.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the action had no effect.
	StatusNoOp
	// StatusError indicates an error occurred. Nothing was committed.
	StatusError
	// StatusCancelled indicates the user cancelled the action.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result represents the outcome of handling an action.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains any error that occurred.
	Error error

	// Message is an optional status message for display.
	Message string

	// Caret replaces the captured selection for the deferred restore when
	// CaretMoved is set.
	Caret      cursor.Offsets
	CaretMoved bool

	// Committed is set by handlers that committed content themselves.
	Committed bool

	// NoRestore skips the deferred selection restore.
	NoRestore bool

	// Content is the markup committed by the dispatcher.
	Content string

	// Data holds handler-specific return data.
	Data map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// NoOp creates a no-operation result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Cancelled creates a cancelled result.
func Cancelled() Result {
	return Result{Status: StatusCancelled}
}

// CancelledWithMessage creates a cancelled result with a message.
func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithCaret returns a copy of the result that restores o instead of the
// captured selection.
func (r Result) WithCaret(o cursor.Offsets) Result {
	r.Caret = o
	r.CaretMoved = true
	return r
}

// WithCommitted returns a copy of the result marked as already committed.
func (r Result) WithCommitted() Result {
	r.Committed = true
	return r
}

// WithoutRestore returns a copy of the result that skips the selection
// restore.
func (r Result) WithoutRestore() Result {
	r.NoRestore = true
	return r
}

// WithData returns a copy of the result with data added.
func (r Result) WithData(key string, value any) Result {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// GetData retrieves a value from the result data.
func (r Result) GetData(key string) (any, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from the result data.
func (r Result) GetDataString(key string) string {
	if v, ok := r.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// FromFormat converts the outcome of a formatting primitive. An unchanged
// tree is a no-op; a moved caret overrides the captured selection.
func FromFormat(r format.Result) Result {
	if !r.Changed {
		return NoOp()
	}
	if r.Moved {
		return Success().WithCaret(r.Caret)
	}
	return Success()
}
