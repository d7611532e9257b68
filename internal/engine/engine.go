package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/dispatcher"
	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/dispatcher/hook"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/event/events"
	"github.com/dshills/inkwell/internal/event/topic"
	"github.com/dshills/inkwell/internal/logging"
)

// Surface is a rendered editing surface the editor can drive.
type Surface interface {
	execctx.SurfaceInterface

	// Commit stages root to be displayed at the next render.
	Commit(root *tree.Node)

	// Detach tears the surface down. Queued restores become no-ops.
	Detach()
}

// Editor is one editing instance: one committed tree, one surface and the
// selection living on it.
//
// Content flows in through SetContent and out through OnContentChange;
// every edit goes through Dispatch.
type Editor struct {
	mu sync.RWMutex

	id      string
	root    *tree.Node
	surface Surface
	closed  bool

	policy     *policy.Policy
	history    *history.History
	dispatcher *dispatcher.Dispatcher
	restorer   *cursor.Restorer
	readOnly   *hook.ReadOnlyHook
	bus        *event.Bus
	ownsBus    bool
	logger     *logging.Logger

	// Configuration
	initContent    string
	direction      Direction
	displayHeight  int
	scrollMargin   int
	historyDepth   int
	dispatchConfig dispatcher.Config
}

// New creates an editor with the given options.
func New(opts ...Option) *Editor {
	e := &Editor{
		id:             uuid.NewString(),
		root:           tree.NewDocument(),
		policy:         policy.Default(),
		readOnly:       hook.NewReadOnlyHook(),
		logger:         logging.Nop(),
		direction:      LTR,
		displayHeight:  DefaultDisplayHeight,
		scrollMargin:   DefaultScrollMargin,
		historyDepth:   DefaultHistoryDepth,
		dispatchConfig: dispatcher.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.WithComponent("engine").WithField("editor", e.id[:8])
	if e.bus == nil {
		e.bus = event.NewBus(event.WithLogger(e.logger))
		e.ownsBus = true
	}
	e.history = history.New(e.historyDepth)
	e.restorer = cursor.NewRestorer(e.scrollMargin)

	cfg := e.dispatchConfig
	cfg.ScrollMargin = e.scrollMargin
	e.dispatcher = dispatcher.New(cfg)
	e.dispatcher.SetLogger(e.logger)
	e.dispatcher.SetEditor(e)
	e.dispatcher.HookManager().RegisterPre(e.readOnly)
	e.dispatcher.OnRestore(e.restored)

	if e.initContent != "" {
		if err := e.SetContent(e.initContent); err != nil {
			e.logger.Warn("initial content rejected", "error", err)
		}
	}
	return e
}

// ID returns the editor's unique identifier.
func (e *Editor) ID() string {
	return e.id
}

// SetContent replaces the content wholesale. The markup is parsed and
// sanitized; undo history is cleared and content listeners are not
// notified.
func (e *Editor) SetContent(markup string) error {
	root, err := tree.Parse(markup)
	if err != nil {
		return err
	}
	root = e.policy.Enforce(root)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.root = root
	surf := e.surface
	e.mu.Unlock()

	e.history.Clear()
	if surf != nil {
		surf.Commit(root.Clone())
	}
	publish(e, events.TopicContentSet, events.ContentSet{EditorID: e.id, Markup: tree.Render(root)})
	return nil
}

// Content returns the committed content as markup.
func (e *Editor) Content() string {
	return tree.Render(e.Tree())
}

// Tree returns the committed tree. Callers must not modify it.
func (e *Editor) Tree() *tree.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root
}

// Policy returns the sanitization policy.
func (e *Editor) Policy() *policy.Policy {
	return e.policy
}

// Commit makes c.Root the content, records the previous content in undo
// history and notifies content listeners. It returns the committed markup.
func (e *Editor) Commit(c execctx.Change) string {
	e.mu.Lock()
	before := tree.Render(e.root)
	e.root = c.Root
	surf := e.surface
	e.mu.Unlock()

	e.history.Push(history.Snapshot{
		Content:     before,
		Selection:   c.Before,
		Description: c.Description,
		Group:       c.Group,
	})
	if surf != nil {
		surf.Commit(c.Root.Clone())
	}

	markup := tree.Render(c.Root)
	publish(e, events.TopicContentChanged, events.ContentChanged{
		EditorID:    e.id,
		Markup:      markup,
		Description: c.Description,
		Group:       c.Group,
	})
	return markup
}

// Undo restores the content before the last commit. current is the
// selection being left; it is stored for Redo. The returned offsets are
// the selection captured before the undone edit.
func (e *Editor) Undo(current cursor.Offsets) (cursor.Offsets, bool) {
	return e.travel("undo", current, e.history.Undo)
}

// Redo re-applies the last undone commit.
func (e *Editor) Redo(current cursor.Offsets) (cursor.Offsets, bool) {
	return e.travel("redo", current, e.history.Redo)
}

func (e *Editor) travel(name string, current cursor.Offsets, step func(history.Snapshot) (history.Snapshot, error)) (cursor.Offsets, bool) {
	snap, err := step(history.Snapshot{Content: e.Content(), Selection: current})
	if err != nil {
		return cursor.Offsets{}, false
	}
	root, err := tree.Parse(snap.Content)
	if err != nil {
		e.logger.Warn("history entry unreadable", "op", name, "error", err)
		return cursor.Offsets{}, false
	}

	e.mu.Lock()
	e.root = root
	surf := e.surface
	e.mu.Unlock()

	if surf != nil {
		surf.Commit(root.Clone())
	}
	publish(e, events.TopicContentChanged, events.ContentChanged{
		EditorID:    e.id,
		Markup:      snap.Content,
		Description: name,
		Undo:        true,
	})
	return snap.Selection, true
}

// OnContentChange registers fn to receive the committed markup after
// every edit. The returned function removes the listener.
func (e *Editor) OnContentChange(fn func(markup string)) (func(), error) {
	sub, err := e.bus.Subscribe(events.TopicContentChanged,
		event.AsHandler(func(_ context.Context, ev event.Event[events.ContentChanged]) error {
			fn(ev.Payload.Markup)
			return nil
		}),
		event.WithFilter(e.own),
	)
	if err != nil {
		return nil, err
	}
	return func() { _ = e.bus.Unsubscribe(sub) }, nil
}

// own reports whether an event was published by this editor.
func (e *Editor) own(ev any) bool {
	mp, ok := ev.(event.MetadataProvider)
	return ok && mp.EventMetadata().Source == e.id
}

// Events returns the event bus the editor publishes on.
func (e *Editor) Events() *event.Bus {
	return e.bus
}

// Attach connects a surface. The current content is staged on it and
// every later commit is shown there.
func (e *Editor) Attach(s Surface) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.surface = s
	root := e.root
	e.mu.Unlock()

	e.dispatcher.SetSurface(s)
	s.Commit(root.Clone())
	return nil
}

// Surface returns the attached surface, or nil.
func (e *Editor) Surface() Surface {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.surface
}

// SetPrompter sets the prompter asked for link and image URLs.
func (e *Editor) SetPrompter(p execctx.Prompter) {
	e.dispatcher.SetPrompter(p)
}

// Selection maps the surface selection to offsets.
func (e *Editor) Selection() (cursor.Offsets, bool) {
	s := e.Surface()
	if s == nil {
		return cursor.Offsets{}, false
	}
	return cursor.Capture(s)
}

// SetSelection applies o to the surface immediately.
func (e *Editor) SetSelection(o cursor.Offsets) error {
	s := e.Surface()
	if s == nil {
		return ErrNoSurface
	}
	if _, ok := e.restorer.Restore(s, o); !ok {
		return ErrNoSurface
	}
	return nil
}

// Dispatch runs one command through the dispatcher.
func (e *Editor) Dispatch(cmd action.Command) handler.Result {
	start := time.Now()
	result := e.dispatcher.Dispatch(cmd)

	msg := result.Message
	if result.Error != nil {
		msg = result.Error.Error()
	}
	publish(e, events.TopicActionDispatched, events.ActionDispatched{
		EditorID: e.id,
		Action:   cmd.Action.String(),
		Status:   result.Status.String(),
		Message:  msg,
		Duration: time.Since(start),
	})
	return result
}

// Exec dispatches an action without arguments.
func (e *Editor) Exec(a action.Action) handler.Result {
	return e.Dispatch(action.New(a))
}

// Dispatcher returns the editor's dispatcher.
func (e *Editor) Dispatcher() *dispatcher.Dispatcher {
	return e.dispatcher
}

// History returns the undo history.
func (e *Editor) History() *history.History {
	return e.history
}

// SetReadOnly locks or unlocks editing.
func (e *Editor) SetReadOnly(v bool) {
	e.readOnly.SetReadOnly(v)
}

// ReadOnly reports whether editing is locked.
func (e *Editor) ReadOnly() bool {
	return e.readOnly.ReadOnly()
}

// Direction returns the writing direction.
func (e *Editor) Direction() Direction {
	return e.direction
}

// DisplayHeight returns the height of the editing area in rows.
func (e *Editor) DisplayHeight() int {
	return e.displayHeight
}

// ScrollMargin returns the restore scroll margin.
func (e *Editor) ScrollMargin() int {
	return e.scrollMargin
}

// Close detaches the surface and releases the editor. Restores still
// queued on the surface do nothing.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	surf := e.surface
	e.surface = nil
	e.mu.Unlock()

	if surf != nil {
		surf.Detach()
	}
	e.dispatcher.SetSurface(nil)
	e.dispatcher.SetEditor(nil)
	if e.ownsBus {
		e.bus.Close()
	}
	e.logger.Debug("editor closed")
}

// Closed reports whether Close was called.
func (e *Editor) Closed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

func (e *Editor) restored(sel cursor.Selection, target cursor.Offsets) {
	publish(e, events.TopicSelectionRestored, events.SelectionRestored{
		EditorID:  e.id,
		Start:     target.Start,
		End:       target.End,
		Collapsed: sel.IsCollapsed(),
	})
}

func publish[T any](e *Editor, t topic.Topic, payload T) {
	err := e.bus.Publish(context.Background(), event.NewEvent(t, payload, e.id))
	if err != nil && !errors.Is(err, event.ErrBusClosed) {
		e.logger.Warn("event delivery failed", "topic", t.String(), "error", err)
	}
}
