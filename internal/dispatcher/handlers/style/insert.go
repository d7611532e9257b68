package style

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/engine/format"
)

// Prompt messages shown for the prompted insertions.
const (
	LinkPrompt  = "Link URL"
	ImagePrompt = "Image URL"
)

// InsertHandler inserts links and images. The URL comes from the command
// text or, when that is empty, from the prompter.
type InsertHandler struct{}

// NewInsertHandler creates a new insert handler.
func NewInsertHandler() *InsertHandler {
	return &InsertHandler{}
}

// CanHandle returns true if this handler can process the action.
func (h *InsertHandler) CanHandle(a action.Action) bool {
	return a.Prompted()
}

// Priority returns the handler priority.
func (h *InsertHandler) Priority() int { return 0 }

// Handle asks for a URL and inserts it. A cancelled or blank answer, or a
// URL the policy would strip, cancels the whole action.
func (h *InsertHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.HasSelection {
		return handler.NoOpWithMessage("no selection")
	}

	switch cmd.Action {
	case action.Link:
		url, ok := h.url(cmd, ctx, LinkPrompt)
		if !ok {
			return handler.CancelledWithMessage("link cancelled")
		}
		if !ctx.Policy().AllowsURL(atom.A, url) {
			return handler.CancelledWithMessage("link rejected: unsafe URL")
		}
		return handler.FromFormat(format.CreateLink(ctx.Working, ctx.Selection, url))
	case action.Image:
		url, ok := h.url(cmd, ctx, ImagePrompt)
		if !ok {
			return handler.CancelledWithMessage("image cancelled")
		}
		if !ctx.Policy().AllowsURL(atom.Img, url) {
			return handler.CancelledWithMessage("image rejected: unsafe URL")
		}
		return handler.FromFormat(format.InsertImage(ctx.Working, ctx.Selection, url))
	default:
		return handler.Errorf("unknown insert action: %s", cmd.Action)
	}
}

func (h *InsertHandler) url(cmd action.Command, ctx *execctx.ExecutionContext, message string) (string, bool) {
	if url := strings.TrimSpace(cmd.Text); url != "" {
		return url, true
	}
	v, ok := ctx.Prompt(cmd.Action, message)
	if !ok {
		ctx.Logger.Debug("prompt cancelled", "action", cmd.Action.String())
		return "", false
	}
	return strings.TrimSpace(v), true
}
