// Package execctx provides the execution context for action handlers.
package execctx

import (
	"strings"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
	"github.com/dshills/inkwell/internal/logging"
)

// Change is a sanitized tree ready to become the editor's content.
type Change struct {
	// Root is the policy-compliant tree.
	Root *tree.Node

	// Before is the selection captured before the edit.
	Before cursor.Offsets

	// Description names the action for history and events.
	Description string

	// Group merges consecutive history entries with the same key.
	Group string
}

// EditorInterface abstracts the editor instance for handlers.
type EditorInterface interface {
	// Tree returns the committed content.
	Tree() *tree.Node

	// Policy returns the sanitization policy.
	Policy() *policy.Policy

	// Commit replaces the content, records history, and emits the
	// serialized tree to content listeners. It returns the markup.
	Commit(c Change) string

	// Undo and Redo swap in a history state and return the selection
	// stored with it. current is the selection being left.
	Undo(current cursor.Offsets) (cursor.Offsets, bool)
	Redo(current cursor.Offsets) (cursor.Offsets, bool)
}

// SurfaceInterface is the rendered editing surface.
type SurfaceInterface interface {
	cursor.Surface

	// AfterRender runs fn once, after the next render of the surface.
	AfterRender(fn func())
}

// Prompter asks the user for a value. ok is false when the user cancels.
type Prompter interface {
	Prompt(a action.Action, message string) (value string, ok bool)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(a action.Action, message string) (string, bool)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(a action.Action, message string) (string, bool) {
	return f(a, message)
}

// ExecutionContext provides context for one action.
type ExecutionContext struct {
	Editor   EditorInterface
	Surface  SurfaceInterface
	Prompter Prompter
	Logger   *logging.Logger

	// Captured is the selection taken before the mutation. HasSelection is
	// false when the surface had none.
	Captured     cursor.Offsets
	HasSelection bool

	// Working is a private copy of the rendered tree for the handler to
	// mutate. Selection is the surface selection rebased onto it.
	Working   *tree.Node
	Selection cursor.Selection

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates an empty execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Logger: logging.Nop(),
		Data:   make(map[string]any),
	}
}

// WithEditor returns the context with the editor set.
func (ctx *ExecutionContext) WithEditor(e EditorInterface) *ExecutionContext {
	ctx.Editor = e
	return ctx
}

// WithSurface returns the context with the surface set.
func (ctx *ExecutionContext) WithSurface(s SurfaceInterface) *ExecutionContext {
	ctx.Surface = s
	return ctx
}

// WithPrompter returns the context with the prompter set.
func (ctx *ExecutionContext) WithPrompter(p Prompter) *ExecutionContext {
	ctx.Prompter = p
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(l *logging.Logger) *ExecutionContext {
	if l != nil {
		ctx.Logger = l
	}
	return ctx
}

// Source returns the tree the selection refers to: the rendered tree when
// a surface is attached, otherwise the committed content.
func (ctx *ExecutionContext) Source() *tree.Node {
	if ctx.Surface != nil && ctx.Surface.Attached() && ctx.Surface.Root() != nil {
		return ctx.Surface.Root()
	}
	if ctx.Editor != nil {
		return ctx.Editor.Tree()
	}
	return nil
}

// Policy returns the editor's policy, or the default one without an
// editor.
func (ctx *ExecutionContext) Policy() *policy.Policy {
	if ctx.Editor != nil {
		if p := ctx.Editor.Policy(); p != nil {
			return p
		}
	}
	return policy.Default()
}

// Prepare captures the selection and makes the working copy.
func (ctx *ExecutionContext) Prepare() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	src := ctx.Source()
	if src == nil {
		src = tree.NewDocument()
	}
	ctx.Working = src.Clone()

	if ctx.Surface == nil || !ctx.Surface.Attached() {
		return nil
	}
	o, ok := cursor.Capture(ctx.Surface)
	if !ok {
		return nil
	}
	sel, ok := cursor.Rebase(ctx.Surface.Selection(), src, ctx.Working)
	if !ok {
		return nil
	}
	ctx.Captured = o
	ctx.HasSelection = true
	ctx.Selection = sel
	return nil
}

// Prompt asks the prompter for a value. It reports false when no prompter
// is set, the user cancels, or the value is blank.
func (ctx *ExecutionContext) Prompt(a action.Action, message string) (string, bool) {
	if ctx.Prompter == nil {
		return "", false
	}
	v, ok := ctx.Prompter.Prompt(a, message)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context can run a handler.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	if ctx.Working == nil {
		return ErrNotPrepared
	}
	return nil
}
