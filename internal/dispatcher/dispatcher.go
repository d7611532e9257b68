// Package dispatcher routes editor actions to handlers and coordinates
// the capture, mutate, sanitize, commit and restore cycle.
package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/dispatcher/handlers/style"
	"github.com/dshills/inkwell/internal/dispatcher/handlers/typing"
	"github.com/dshills/inkwell/internal/dispatcher/handlers/undo"
	"github.com/dshills/inkwell/internal/dispatcher/hook"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/tree"
	"github.com/dshills/inkwell/internal/logging"
)

// History group keys. Consecutive commits with the same key share one
// undo entry.
const (
	GroupTyping   = "typing"
	GroupDeletion = "deletion"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	hooks    *hook.Manager
	restorer *cursor.Restorer

	editor   execctx.EditorInterface
	surface  execctx.SurfaceInterface
	prompter execctx.Prompter
	logger   *logging.Logger
	restored func(cursor.Selection, cursor.Offsets)

	config  Config
	metrics *Metrics
}

// New creates a dispatcher with the built-in handlers registered.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		hooks:    hook.NewManager(),
		restorer: cursor.NewRestorer(config.ScrollMargin),
		logger:   logging.Nop(),
		config:   config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if config.MaxInsertRunes > 0 {
		d.hooks.RegisterPre(hook.NewTextLimitHook(config.MaxInsertRunes))
	}

	d.registry.Register(style.NewStyleHandler())
	d.registry.Register(style.NewInsertHandler())
	d.registry.Register(typing.NewTypingHandler())
	d.registry.Register(typing.NewSurfaceHandler())
	d.registry.Register(undo.NewUndoHandler())
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor sets the editor the dispatcher commits to.
func (d *Dispatcher) SetEditor(e execctx.EditorInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = e
}

// SetSurface sets the surface selections are captured from and restored to.
func (d *Dispatcher) SetSurface(s execctx.SurfaceInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.surface = s
}

// SetPrompter sets the prompter used by link and image.
func (d *Dispatcher) SetPrompter(p execctx.Prompter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompter = p
}

// SetLogger sets the logger.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l == nil {
		l = logging.Nop()
	}
	d.logger = l.WithComponent("dispatcher")
}

// OnRestore sets a function called after every deferred restore that
// landed on an attached surface.
func (d *Dispatcher) OnRestore(fn func(sel cursor.Selection, target cursor.Offsets)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.restored = fn
}

// Editor returns the editor.
func (d *Dispatcher) Editor() execctx.EditorInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// Surface returns the surface.
func (d *Dispatcher) Surface() execctx.SurfaceInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.surface
}

// Dispatch executes a command synchronously.
//
// The selection is captured before the handler runs. When the handler
// succeeds the working tree is sanitized and committed, and a restore of
// the captured selection (or the handler's caret) is queued to run after
// the surface next renders. Any other outcome leaves the editor untouched.
func (d *Dispatcher) Dispatch(cmd action.Command) handler.Result {
	startTime := time.Now()

	result := d.dispatch(&cmd)

	if d.metrics != nil {
		d.metrics.RecordDispatch(cmd.Action, time.Since(startTime), result.Status)
	}
	return result
}

func (d *Dispatcher) dispatch(cmd *action.Command) handler.Result {
	if !cmd.Action.Valid() {
		return handler.Error(actionError(cmd.Action, ErrInvalidAction))
	}

	ctx := d.buildContext()
	if ctx.Editor == nil {
		return handler.Error(actionError(cmd.Action, ErrNoEditor))
	}

	if !d.hooks.RunPreDispatch(cmd, ctx) {
		return handler.CancelledWithMessage("cancelled by hook")
	}

	h := d.registry.Get(cmd.Action)
	if h == nil {
		return handler.Error(actionError(cmd.Action, ErrNoHandler))
	}

	if err := ctx.Prepare(); err != nil {
		return handler.Error(actionError(cmd.Action, err))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, *cmd, ctx)
	} else {
		result = h.Handle(*cmd, ctx)
	}

	d.processResult(*cmd, ctx, &result)
	d.hooks.RunPostDispatch(cmd, ctx, &result)

	ctx.Logger.Debug("dispatched",
		"action", cmd.Action.String(),
		"status", result.Status.String(),
	)
	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, cmd action.Command, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			ctx.Logger.Warn("handler panic", "action", cmd.Action.String(), "panic", fmt.Sprint(r))
			result = handler.Error(actionError(cmd.Action, fmt.Errorf("%w: %v\n%s", ErrPanic, r, stack[:n])))

			if d.metrics != nil {
				d.metrics.RecordPanic(cmd.Action)
			}
		}
	}()

	return h.Handle(cmd, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext() *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx := execctx.New().WithLogger(d.logger)
	ctx.Editor = d.editor
	ctx.Prompter = d.prompter
	ctx.Surface = d.surface
	return ctx
}

// processResult commits a successful result and queues the restore.
func (d *Dispatcher) processResult(cmd action.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK {
		return
	}

	if result.Committed {
		result.Content = tree.Render(ctx.Editor.Tree())
	} else {
		root := ctx.Editor.Policy().Enforce(ctx.Working)
		result.Content = ctx.Editor.Commit(execctx.Change{
			Root:        root,
			Before:      ctx.Captured,
			Description: cmd.Action.String(),
			Group:       historyGroup(cmd.Action),
		})
	}

	if result.NoRestore || ctx.Surface == nil {
		return
	}
	target, ok := ctx.Captured, ctx.HasSelection
	if result.CaretMoved {
		target, ok = result.Caret, true
		if ctx.Captured.HasScroll && !target.HasScroll {
			target = target.WithScroll(ctx.Captured.Scroll)
		}
	}
	if !ok {
		return
	}
	d.scheduleRestore(ctx.Surface, target, ctx.Logger)
}

// scheduleRestore restores target after the surface's next render. The
// callback holds the surface, not the editor, so a restore queued before
// the surface was torn down does nothing.
func (d *Dispatcher) scheduleRestore(s execctx.SurfaceInterface, target cursor.Offsets, logger *logging.Logger) {
	restorer := d.restorer
	d.mu.RLock()
	observe := d.restored
	d.mu.RUnlock()

	s.AfterRender(func() {
		sel, ok := restorer.Restore(s, target)
		if !ok {
			logger.Debug("restore skipped", "reason", "surface detached")
			return
		}
		if observe != nil {
			observe(sel, target)
		}
	})
}

// historyGroup returns the history group key for a.
func historyGroup(a action.Action) string {
	switch a {
	case action.InsertText:
		return GroupTyping
	case action.DeleteBackward, action.DeleteForward:
		return GroupDeletion
	default:
		return ""
	}
}

// RegisterHandler registers a handler for every action it can handle.
func (d *Dispatcher) RegisterHandler(h handler.Handler) {
	d.registry.Register(h)
}

// RegisterHandlerFunc registers a handler function for one action.
func (d *Dispatcher) RegisterHandlerFunc(a action.Action, fn func(action.Command, *execctx.ExecutionContext) handler.Result) {
	d.registry.RegisterFor(a, handler.NewHandlerFunc(fn))
}

// UnregisterHandler removes all handlers for an action.
func (d *Dispatcher) UnregisterHandler(a action.Action) {
	d.registry.Unregister(a)
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// HookManager returns the hook manager.
func (d *Dispatcher) HookManager() *hook.Manager {
	return d.hooks
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
