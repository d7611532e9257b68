// Package undo provides the undo and redo handlers.
//
// History lives in the editor. These handlers swap the committed content
// with a stored snapshot and restore the selection saved with it.
package undo

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/engine/cursor"
)

// UndoHandler handles undo and redo.
type UndoHandler struct{}

// NewUndoHandler creates a new undo handler.
func NewUndoHandler() *UndoHandler {
	return &UndoHandler{}
}

// CanHandle returns true if this handler can process the action.
func (h *UndoHandler) CanHandle(a action.Action) bool {
	return a == action.Undo || a == action.Redo
}

// Priority returns the handler priority.
func (h *UndoHandler) Priority() int { return 0 }

// Handle restores the previous or next snapshot. The editor commits the
// snapshot itself, so the result is marked committed.
func (h *UndoHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
	var (
		o  cursor.Offsets
		ok bool
	)
	switch cmd.Action {
	case action.Undo:
		o, ok = ctx.Editor.Undo(ctx.Captured)
		if !ok {
			return handler.NoOpWithMessage("nothing to undo")
		}
	case action.Redo:
		o, ok = ctx.Editor.Redo(ctx.Captured)
		if !ok {
			return handler.NoOpWithMessage("nothing to redo")
		}
	default:
		return handler.Errorf("unknown undo action: %s", cmd.Action)
	}
	return handler.Success().WithCommitted().WithCaret(o)
}
