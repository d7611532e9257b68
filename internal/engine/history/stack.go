package history

import (
	"errors"
	"sync"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// History manages undo/redo snapshots for one editor.
type History struct {
	mu sync.Mutex

	undoStack []Snapshot
	redoStack []Snapshot

	// Grouping state
	grouping   bool
	groupName  string
	groupFirst *Snapshot

	// lastGroup is the Group key of the newest undo entry while it is
	// still open for merging.
	lastGroup string

	// Configuration
	maxEntries int
}

// New creates a history keeping at most maxEntries undo snapshots.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Push records the state before an edit and clears the redo stack.
func (h *History) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	h.redoStack = nil

	if h.grouping {
		if h.groupFirst == nil {
			h.groupFirst = &s
		}
		return
	}

	if s.Group != "" && s.Group == h.lastGroup && len(h.undoStack) > 0 {
		return
	}
	h.pushLocked(s)
}

// pushLocked adds a snapshot without acquiring the lock.
func (h *History) pushLocked(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	h.lastGroup = s.Group

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the newest snapshot and returns it. current is the state being
// replaced; it becomes available to Redo.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	current.Description = entry.Description
	if current.Timestamp.IsZero() {
		current.Timestamp = time.Now()
	}
	h.redoStack = append(h.redoStack, current)
	h.lastGroup = ""
	return entry, nil
}

// Redo pops the newest undone state and returns it. current is the state
// being replaced; it becomes available to Undo again.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	current.Description = entry.Description
	if current.Timestamp.IsZero() {
		current.Timestamp = time.Now()
	}
	h.undoStack = append(h.undoStack, current)
	h.lastGroup = ""
	return entry, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts a group. Snapshots pushed while grouping form a
// single undo unit.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		// Already grouping, ignore nested calls
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupFirst = nil
}

// EndGroup finishes a group, recording the state before its first edit.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if h.groupFirst == nil {
		return
	}
	s := *h.groupFirst
	if h.groupName != "" {
		s.Description = h.groupName
	}
	s.Group = ""
	h.pushLocked(s)
	h.groupFirst = nil
}

// CancelGroup ends a group without adding to history.
// Edits already committed stay in the document.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupFirst = nil
}

// IsGrouping returns true if currently in a group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Seal closes the newest entry for merging, so the next snapshot with the
// same Group key starts a new undo step.
func (h *History) Seal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastGroup = ""
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupFirst = nil
	h.lastGroup = ""
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, s := range h.undoStack {
		result[i] = s.info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
