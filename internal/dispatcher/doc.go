// Package dispatcher provides action dispatch for the editor.
//
// Every user action, whether a toolbar button, a key or an API call,
// arrives as an action.Command and runs through one cycle:
//
//  1. Pre-dispatch hooks may rewrite or cancel the command.
//  2. The surface selection is captured as global offsets and the rendered
//     tree is cloned into a working copy.
//  3. The handler registered for the action mutates the working copy.
//  4. On success the copy is sanitized by the editor's policy and
//     committed, which records history and emits the new content.
//  5. A restore of the captured offsets, or of the caret the handler
//     reported, is queued to run after the surface next renders.
//  6. Post-dispatch hooks see the final result.
//
// A handler that returns anything but StatusOK leaves the editor as it
// was: no commit, no emission and no history entry. A cancelled link or
// image prompt is such a case.
//
// # Handlers
//
// The built-in handlers live under handlers/:
//
//	style   bold, italic, underline, headings, paragraph, lists,
//	        alignment, code, link, image
//	typing  insert-text, delete-backward, delete-forward, enter,
//	        input, commit
//	undo    undo, redo
//
// A handler registered with a higher priority replaces a built-in one:
//
//	d.RegisterHandler(&handler.SimpleHandler{
//	    Action: action.Bold,
//	    Fn:     myBold,
//	    Prio:   10,
//	})
//
// # Configuration
//
//	config := dispatcher.DefaultConfig().
//	    WithMetrics().
//	    WithScrollMargin(2)
//	d := dispatcher.New(config)
//	d.SetEditor(editor)
//	d.SetSurface(surface)
//
// # Errors
//
// Dispatch never panics and never returns an error value. Failures are
// reported in the result as StatusError with an *ActionError that wraps
// one of the package sentinels.
package dispatcher
