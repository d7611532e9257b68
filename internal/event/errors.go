package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrBusClosed is returned when publishing to or subscribing on a
	// closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrInvalidEvent is returned when an event carries no topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidSubscription is returned for a nil subscription.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when trying to unsubscribe a
	// subscription the bus does not hold.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic is matched by PanicError.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// HandlerError wraps an error from a handler with its subscription.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler error for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic value.
type PanicError struct {
	SubscriptionID string
	Topic          string
	Value          any
	Stack          string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
