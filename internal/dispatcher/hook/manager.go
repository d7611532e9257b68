package hook

import (
	"slices"
	"sync"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
)

// chain is a named list of hooks kept in priority order. Names are unique.
type chain[H Hook] struct {
	hooks []H
	// desc runs higher priorities first.
	desc bool
}

func (c *chain[H]) put(h H) {
	if i := c.index(h.Name()); i >= 0 {
		c.hooks[i] = h
	} else {
		c.hooks = append(c.hooks, h)
	}
	slices.SortStableFunc(c.hooks, func(a, b H) int {
		if c.desc {
			return b.Priority() - a.Priority()
		}
		return a.Priority() - b.Priority()
	})
}

func (c *chain[H]) remove(name string) bool {
	i := c.index(name)
	if i < 0 {
		return false
	}
	c.hooks = slices.Delete(c.hooks, i, i+1)
	return true
}

func (c *chain[H]) index(name string) int {
	return slices.IndexFunc(c.hooks, func(h H) bool { return h.Name() == name })
}

func (c *chain[H]) names() []string {
	names := make([]string, len(c.hooks))
	for i, h := range c.hooks {
		names[i] = h.Name()
	}
	return names
}

// Manager holds the pre- and post-dispatch hooks of a dispatcher.
//
// Pre-hooks run from highest to lowest priority and the first to return
// false cancels the dispatch. Post-hooks run from lowest to highest so the
// highest-priority hook sees the final result.
type Manager struct {
	mu   sync.RWMutex
	pre  chain[PreDispatchHook]
	post chain[PostDispatchHook]
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{pre: chain[PreDispatchHook]{desc: true}}
}

// RegisterPre adds a pre-dispatch hook, replacing one with the same name.
func (m *Manager) RegisterPre(h PreDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pre.put(h)
}

// RegisterPost adds a post-dispatch hook, replacing one with the same name.
func (m *Manager) RegisterPost(h PostDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.post.put(h)
}

// Register adds h to every chain it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.RegisterPost(post)
	}
}

// UnregisterPre removes a pre-dispatch hook by name.
func (m *Manager) UnregisterPre(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pre.remove(name)
}

// UnregisterPost removes a post-dispatch hook by name.
func (m *Manager) UnregisterPost(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.post.remove(name)
}

// Unregister removes a hook by name from both chains.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	pre := m.pre.remove(name)
	post := m.post.remove(name)
	return pre || post
}

// RunPreDispatch reports false as soon as a hook cancels cmd.
func (m *Manager) RunPreDispatch(cmd *action.Command, ctx *execctx.ExecutionContext) bool {
	m.mu.RLock()
	hooks := slices.Clone(m.pre.hooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(cmd, ctx) {
			return false
		}
	}
	return true
}

// RunPostDispatch lets every post-hook inspect or amend result.
func (m *Manager) RunPostDispatch(cmd *action.Command, ctx *execctx.ExecutionContext, result *handler.Result) {
	m.mu.RLock()
	hooks := slices.Clone(m.post.hooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(cmd, ctx, result)
	}
}

// PreHookCount returns the number of pre-dispatch hooks.
func (m *Manager) PreHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pre.hooks)
}

// PostHookCount returns the number of post-dispatch hooks.
func (m *Manager) PostHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.post.hooks)
}

// PreHookNames returns the pre-dispatch hook names in run order.
func (m *Manager) PreHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pre.names()
}

// PostHookNames returns the post-dispatch hook names in run order.
func (m *Manager) PostHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.post.names()
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pre.hooks = nil
	m.post.hooks = nil
}
