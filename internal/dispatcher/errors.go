package dispatcher

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/dispatcher/action"
)

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler was found for an action.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidAction indicates the action is outside the action set.
	ErrInvalidAction = errors.New("dispatcher: invalid action")

	// ErrNoEditor indicates the dispatcher has no editor to act on.
	ErrNoEditor = errors.New("dispatcher: no editor")
)

// ActionError reports a failure while dispatching one action.
type ActionError struct {
	Action action.Action
	Err    error
}

// Error implements error.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActionError) Unwrap() error {
	return e.Err
}

func actionError(a action.Action, err error) *ActionError {
	return &ActionError{Action: a, Err: err}
}
