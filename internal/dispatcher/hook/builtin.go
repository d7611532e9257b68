package hook

import (
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/logging"
)

// Standard hook priorities.
const (
	PriorityAudit      = 1000 // Runs first (pre) / last (post)
	PriorityTextLimit  = 900  // Trim input early
	PriorityValidation = 800  // Validate before processing
)

// AuditHook logs all dispatched actions.
type AuditHook struct {
	logger *logging.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger *logging.Logger) *AuditHook {
	return &AuditHook{logger: logger.WithComponent("audit")}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the action being dispatched.
func (h *AuditHook) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	h.logger.Debug("dispatch start",
		"action", cmd.Action.String(),
		"source", cmd.Source.String(),
	)
	return true
}

// PostDispatch logs the dispatch result.
func (h *AuditHook) PostDispatch(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status == handler.StatusError {
		h.logger.Error("dispatch failed",
			"action", cmd.Action.String(),
			"error", result.Error,
		)
		return
	}
	h.logger.Debug("dispatch complete",
		"action", cmd.Action.String(),
		"status", result.Status.String(),
		"message", result.Message,
	)
}

// TextLimitHook truncates inserted text to a maximum number of runes.
type TextLimitHook struct {
	maxRunes int
}

// NewTextLimitHook creates a text limit hook. A limit of 0 disables it.
func NewTextLimitHook(maxRunes int) *TextLimitHook {
	return &TextLimitHook{maxRunes: maxRunes}
}

// Name implements Hook.
func (h *TextLimitHook) Name() string { return "text-limit" }

// Priority implements Hook.
func (h *TextLimitHook) Priority() int { return PriorityTextLimit }

// PreDispatch trims cmd.Text for insert-text commands.
func (h *TextLimitHook) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	if h.maxRunes <= 0 || cmd.Action != action.InsertText {
		return true
	}
	if utf8.RuneCountInString(cmd.Text) <= h.maxRunes {
		return true
	}
	n := 0
	for i := range cmd.Text {
		if n == h.maxRunes {
			cmd.Text = cmd.Text[:i]
			break
		}
		n++
	}
	return true
}

// ValidationHook validates commands before dispatch using a custom function.
type ValidationHook struct {
	name     string
	priority int
	validate func(cmd *action.Command, ctx *execctx.ExecutionContext) error
}

// NewValidationHook creates a validation hook.
func NewValidationHook(name string, priority int, validate func(*action.Command, *execctx.ExecutionContext) error) *ValidationHook {
	return &ValidationHook{
		name:     name,
		priority: priority,
		validate: validate,
	}
}

// Name implements Hook.
func (h *ValidationHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ValidationHook) Priority() int { return h.priority }

// PreDispatch validates the command and cancels if invalid.
func (h *ValidationHook) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	if h.validate == nil {
		return true
	}
	if err := h.validate(cmd, ctx); err != nil {
		ctx.Logger.Debug("command rejected", "hook", h.name, "action", cmd.Action.String(), "error", err)
		return false
	}
	return true
}

// ReadOnlyHook blocks every action that would change content while the
// document is locked.
type ReadOnlyHook struct {
	locked atomic.Bool
}

// NewReadOnlyHook creates a read-only enforcement hook, initially unlocked.
func NewReadOnlyHook() *ReadOnlyHook {
	return &ReadOnlyHook{}
}

// Name implements Hook.
func (h *ReadOnlyHook) Name() string { return "read-only" }

// Priority implements Hook.
func (h *ReadOnlyHook) Priority() int { return PriorityValidation }

// SetReadOnly locks or unlocks the document.
func (h *ReadOnlyHook) SetReadOnly(v bool) { h.locked.Store(v) }

// ReadOnly reports whether the document is locked.
func (h *ReadOnlyHook) ReadOnly() bool { return h.locked.Load() }

// PreDispatch cancels modifications while locked.
func (h *ReadOnlyHook) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	if !h.locked.Load() {
		return true
	}
	return cmd.Action == action.Commit
}

// TimingHook measures action execution time. The start time is kept in
// the context data so cancelled dispatches leave nothing behind.
type TimingHook struct {
	callback func(a action.Action, d time.Duration)
}

const timingStartKey = "_timing_start"

// NewTimingHook creates a timing hook that reports each dispatch duration.
func NewTimingHook(callback func(a action.Action, d time.Duration)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// PreDispatch records the start time on the context.
func (h *TimingHook) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	ctx.SetData(timingStartKey, time.Now())
	return true
}

// PostDispatch reports the elapsed time.
func (h *TimingHook) PostDispatch(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	v, ok := ctx.GetData(timingStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if ok && h.callback != nil {
		h.callback(cmd.Action, time.Since(start))
	}
}
