package dispatcher

import (
	"slices"
	"sort"
	"sync"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
)

// Registry manages handler registration by action.
type Registry struct {
	mu       sync.RWMutex
	handlers map[action.Action][]handler.Handler // sorted by priority
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[action.Action][]handler.Handler),
	}
}

// Register adds h for every action it can handle.
func (r *Registry) Register(h handler.Handler) {
	for _, a := range action.All() {
		if h.CanHandle(a) {
			r.RegisterFor(a, h)
		}
	}
}

// RegisterFor adds a handler for one action.
// Multiple handlers can be registered for the same action; they are sorted
// by priority, and among equal priorities the latest registration wins.
func (r *Registry) RegisterFor(a action.Action, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := append([]handler.Handler{h}, r.handlers[a]...)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() > handlers[j].Priority()
	})
	r.handlers[a] = handlers
}

// Unregister removes all handlers for an action.
func (r *Registry) Unregister(a action.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, a)
}

// UnregisterHandler removes a specific handler for an action.
func (r *Registry) UnregisterHandler(a action.Action, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[a]
	for i, existing := range handlers {
		if existing == h {
			r.handlers[a] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}

// Get returns the highest priority handler for an action.
// Returns nil if no handler is registered.
func (r *Registry) Get(a action.Action) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := r.handlers[a]
	if len(handlers) == 0 {
		return nil
	}
	return handlers[0]
}

// GetAll returns all handlers for an action.
func (r *Registry) GetAll(a action.Action) []handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.handlers[a])
}

// Has returns true if a handler is registered for the action.
func (r *Registry) Has(a action.Action) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[a]) > 0
}

// List returns all registered actions in declaration order.
func (r *Registry) List() []action.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]action.Action, 0, len(r.handlers))
	for a, hs := range r.handlers {
		if len(hs) > 0 {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	return len(r.List())
}

// Clear removes all registered handlers.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[action.Action][]handler.Handler)
}
