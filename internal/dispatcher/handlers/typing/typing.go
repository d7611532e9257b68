package typing

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/engine/format"
)

// TypingHandler inserts and deletes text and splits blocks.
type TypingHandler struct{}

// NewTypingHandler creates a new typing handler.
func NewTypingHandler() *TypingHandler {
	return &TypingHandler{}
}

// CanHandle returns true if this handler can process the action.
func (h *TypingHandler) CanHandle(a action.Action) bool {
	switch a {
	case action.InsertText, action.DeleteBackward, action.DeleteForward, action.Enter:
		return true
	}
	return false
}

// Priority returns the handler priority.
func (h *TypingHandler) Priority() int { return 0 }

// Handle processes a typing action.
func (h *TypingHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.HasSelection {
		return handler.NoOpWithMessage("no selection")
	}
	doc, sel := ctx.Working, ctx.Selection

	switch cmd.Action {
	case action.InsertText:
		if cmd.Text == "" {
			return handler.NoOp()
		}
		return handler.FromFormat(format.InsertText(doc, sel, cmd.Text))
	case action.DeleteBackward:
		return handler.FromFormat(format.DeleteBackward(doc, sel))
	case action.DeleteForward:
		return handler.FromFormat(format.DeleteForward(doc, sel))
	case action.Enter:
		return handler.FromFormat(format.InsertParagraph(doc, sel))
	default:
		return handler.Errorf("unknown typing action: %s", cmd.Action)
	}
}

// SurfaceHandler commits edits the host made to the surface directly.
type SurfaceHandler struct{}

// NewSurfaceHandler creates a new surface handler.
func NewSurfaceHandler() *SurfaceHandler {
	return &SurfaceHandler{}
}

// CanHandle returns true if this handler can process the action.
func (h *SurfaceHandler) CanHandle(a action.Action) bool {
	return a == action.Input || a == action.Commit
}

// Priority returns the handler priority.
func (h *SurfaceHandler) Priority() int { return 0 }

// Handle accepts the working tree as is. The dispatcher sanitizes it.
func (h *SurfaceHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
	switch cmd.Action {
	case action.Input:
		return handler.Success()
	case action.Commit:
		return handler.Success().WithoutRestore()
	default:
		return handler.Errorf("unknown surface action: %s", cmd.Action)
	}
}
