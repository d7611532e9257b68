package style

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/engine/format"
)

// Tags used by the inline, block and list toggles.
var styleTags = map[action.Action]string{
	action.Bold:          "b",
	action.Italic:        "i",
	action.Underline:     "u",
	action.Heading1:      "h1",
	action.Heading2:      "h2",
	action.Paragraph:     "p",
	action.UnorderedList: "ul",
	action.OrderedList:   "ol",
}

// Values written to text-align.
var alignments = map[action.Action]string{
	action.AlignLeft:   "left",
	action.AlignCenter: "center",
	action.AlignRight:  "right",
}

// StyleHandler applies inline, block, list, alignment and code formatting.
type StyleHandler struct{}

// NewStyleHandler creates a new style handler.
func NewStyleHandler() *StyleHandler {
	return &StyleHandler{}
}

// CanHandle returns true if this handler can process the action.
func (h *StyleHandler) CanHandle(a action.Action) bool {
	if _, ok := styleTags[a]; ok {
		return true
	}
	if _, ok := alignments[a]; ok {
		return true
	}
	return a == action.Code
}

// Priority returns the handler priority.
func (h *StyleHandler) Priority() int { return 0 }

// Handle applies the formatting to the working tree.
func (h *StyleHandler) Handle(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.HasSelection {
		return handler.NoOpWithMessage("no selection")
	}
	doc, sel := ctx.Working, ctx.Selection

	switch cmd.Action {
	case action.Bold, action.Italic, action.Underline:
		return handler.FromFormat(format.ToggleInline(doc, sel, styleTags[cmd.Action]))
	case action.Heading1, action.Heading2, action.Paragraph:
		return handler.FromFormat(format.FormatBlock(doc, sel, styleTags[cmd.Action]))
	case action.UnorderedList, action.OrderedList:
		return handler.FromFormat(format.ToggleList(doc, sel, styleTags[cmd.Action]))
	case action.AlignLeft, action.AlignCenter, action.AlignRight:
		return handler.FromFormat(format.Align(doc, sel, alignments[cmd.Action]))
	case action.Code:
		return handler.FromFormat(format.WrapCode(doc, sel))
	default:
		return handler.Errorf("unknown style action: %s", cmd.Action)
	}
}
