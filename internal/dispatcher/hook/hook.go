package hook

import (
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
)

// Hook is the base interface for all dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for pre-hooks, last for post-hooks.
	Priority() int
}

// PreDispatchHook is called before an action is dispatched.
type PreDispatchHook interface {
	Hook

	// PreDispatch may modify the command. Returning false cancels the
	// dispatch before anything is captured or mutated.
	PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	Hook

	// PostDispatch may inspect or modify the result.
	PostDispatch(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc wraps a function as a PreDispatchHook.
type PreDispatchFunc struct {
	name     string
	priority int
	fn       func(cmd *action.Command, ctx *execctx.ExecutionContext) bool
}

// NewPreDispatchFunc creates a new PreDispatchFunc hook.
func NewPreDispatchFunc(name string, priority int, fn func(cmd *action.Command, ctx *execctx.ExecutionContext) bool) *PreDispatchFunc {
	return &PreDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreDispatchFunc) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook.
func (f *PreDispatchFunc) PreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	if f.fn == nil {
		return true
	}
	return f.fn(cmd, ctx)
}

// PostDispatchFunc wraps a function as a PostDispatchHook.
type PostDispatchFunc struct {
	name     string
	priority int
	fn       func(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result)
}

// NewPostDispatchFunc creates a new PostDispatchFunc hook.
func NewPostDispatchFunc(name string, priority int, fn func(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result)) *PostDispatchFunc {
	return &PostDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PostDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostDispatchFunc) Priority() int { return f.priority }

// PostDispatch implements PostDispatchHook.
func (f *PostDispatchFunc) PostDispatch(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	if f.fn != nil {
		f.fn(cmd, ctx, result)
	}
}
