// Package engine provides the editor instance facade.
//
// An Editor owns one committed document tree, an undo history and a
// dispatcher, and drives one attached Surface. Content enters through
// SetContent and leaves through OnContentChange; every edit in between is
// a dispatched action.
//
// # Sub-packages
//
//   - tree: document node model, parsing and serialization
//   - policy: the sanitization policy applied before every commit
//   - cursor: selection offsets, mapping and restoration
//   - format: the native formatting primitives
//   - history: undo/redo snapshots
//
// # Edit Cycle
//
// Dispatch captures the surface selection as global offsets, lets the
// action's handler mutate a private copy of the rendered tree, sanitizes
// it, and commits it:
//
//	e := engine.New(engine.WithContent("<p>Hello world</p>"))
//	defer e.Close()
//
//	s := surface.New()
//	e.Attach(s)
//	s.Render()
//
//	stop, _ := e.OnContentChange(func(markup string) {
//		save(markup)
//	})
//	defer stop()
//
//	e.SetSelection(cursor.Span(0, 5))
//	e.Exec(action.Bold)
//	s.Render() // the selection is restored after the new tree is shown
//
// Commit stages the new tree on the surface; the selection is restored
// only after the surface renders it.
//
// # Thread Safety
//
// Editor state is guarded by a mutex, but the edit cycle is meant to run
// on the host's event loop. Event listeners run synchronously inside
// Dispatch and SetContent.
package engine
