// Package handler provides the handler interface and result type for
// action dispatch.
package handler

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
)

// Handler processes one or more actions.
//
// A handler mutates ctx.Working in place and reports the outcome. It never
// touches the editor's committed tree directly; the dispatcher sanitizes
// and commits the working tree when the status is StatusOK.
type Handler interface {
	// Handle executes the command and returns a result.
	Handle(cmd action.Command, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(a action.Action) bool

	// Priority returns the handler priority (higher = checked first).
	Priority() int
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc struct {
	fn   func(cmd action.Command, ctx *execctx.ExecutionContext) Result
	prio int
}

// NewHandlerFunc creates a HandlerFunc from a function.
func NewHandlerFunc(fn func(cmd action.Command, ctx *execctx.ExecutionContext) Result) *HandlerFunc {
	return &HandlerFunc{fn: fn}
}

// NewHandlerFuncWithPriority creates a HandlerFunc with a specified priority.
func NewHandlerFuncWithPriority(fn func(cmd action.Command, ctx *execctx.ExecutionContext) Result, priority int) *HandlerFunc {
	return &HandlerFunc{fn: fn, prio: priority}
}

// Handle implements Handler.Handle.
func (f *HandlerFunc) Handle(cmd action.Command, ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("handler function is nil")
	}
	return f.fn(cmd, ctx)
}

// CanHandle implements Handler.CanHandle.
// HandlerFunc always returns true; the registry does the routing.
func (f *HandlerFunc) CanHandle(action.Action) bool {
	return true
}

// Priority implements Handler.Priority.
func (f *HandlerFunc) Priority() int {
	return f.prio
}

// SimpleHandler wraps a function with an explicit action.
type SimpleHandler struct {
	// Action is the action this handler processes.
	Action action.Action

	// Fn is the handler function.
	Fn func(cmd action.Command, ctx *execctx.ExecutionContext) Result

	// Prio is the handler priority.
	Prio int
}

// Handle implements Handler.Handle.
func (h *SimpleHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) Result {
	if h.Fn == nil {
		return Errorf("handler function is nil")
	}
	return h.Fn(cmd, ctx)
}

// CanHandle implements Handler.CanHandle.
func (h *SimpleHandler) CanHandle(a action.Action) bool {
	return a == h.Action
}

// Priority implements Handler.Priority.
func (h *SimpleHandler) Priority() int {
	return h.Prio
}
