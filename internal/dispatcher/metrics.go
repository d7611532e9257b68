package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
)

// Metrics counts dispatches per action and outcome.
type Metrics struct {
	mu      sync.RWMutex
	actions map[action.Action]*ActionMetrics
	totals  ActionMetrics
}

// ActionMetrics holds the counters of one action. The totals of a
// Metrics use the same shape with Action left as None.
type ActionMetrics struct {
	Action action.Action

	Dispatches uint64
	NoOps      uint64
	Errors     uint64
	Cancels    uint64
	Panics     uint64

	Total time.Duration
	Max   time.Duration

	LastStatus handler.ResultStatus
}

// Average returns the mean dispatch duration.
func (am ActionMetrics) Average() time.Duration {
	if am.Dispatches == 0 {
		return 0
	}
	return am.Total / time.Duration(am.Dispatches)
}

func (am *ActionMetrics) record(d time.Duration, status handler.ResultStatus) {
	am.Dispatches++
	am.Total += d
	am.Max = max(am.Max, d)
	am.LastStatus = status
	switch status {
	case handler.StatusNoOp:
		am.NoOps++
	case handler.StatusError:
		am.Errors++
	case handler.StatusCancelled:
		am.Cancels++
	}
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[action.Action]*ActionMetrics)}
}

// RecordDispatch records one finished dispatch.
func (m *Metrics) RecordDispatch(a action.Action, d time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.record(d, status)
	m.entry(a).record(d, status)
}

// RecordPanic records a recovered panic. The dispatch itself is recorded
// separately with an error status.
func (m *Metrics) RecordPanic(a action.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Panics++
	m.entry(a).Panics++
}

func (m *Metrics) entry(a action.Action) *ActionMetrics {
	am := m.actions[a]
	if am == nil {
		am = &ActionMetrics{Action: a}
		m.actions[a] = am
	}
	return am
}

// Totals returns the counters over every action.
func (m *Metrics) Totals() ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totals
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	return m.Totals().Panics
}

// ActionStats returns a copy of the counters for a, or nil if a was never
// dispatched.
func (m *Metrics) ActionStats(a action.Action) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	am := m.actions[a]
	if am == nil {
		return nil
	}
	c := *am
	return &c
}

// TopActions returns the n most dispatched actions.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	m.mu.RLock()
	all := make([]ActionMetrics, 0, len(m.actions))
	for _, am := range m.actions {
		all = append(all, *am)
	}
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b ActionMetrics) int {
		if c := cmp.Compare(b.Dispatches, a.Dispatches); c != 0 {
			return c
		}
		return cmp.Compare(a.Action, b.Action)
	})
	return all[:min(max(n, 0), len(all))]
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = make(map[action.Action]*ActionMetrics)
	m.totals = ActionMetrics{}
}
