// Package history provides undo/redo for the editing core.
//
// Every committed edit replaces the whole document tree, so history records
// snapshots rather than inverse operations. A Snapshot holds the serialized
// content and the selection offsets at the moment before an edit:
//
//	h := history.New(100)
//	h.Push(history.Snapshot{Content: before, Selection: off})
//	// ... commit the edit ...
//	prev, err := h.Undo(current)
//
// Undo takes the current state so it can be offered again by Redo.
//
// # Grouping
//
// Several edits can be grouped into one undo unit; only the state before
// the first edit of the group is kept:
//
//	defer h.GroupScope("paste").End()
//
// Consecutive snapshots carrying the same non-empty Group key also collapse
// into one entry, which keeps a run of typed characters a single undo step.
package history
