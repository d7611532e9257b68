// Package renderer hosts an editor in a terminal.
//
// The screen is split into a toolbar row, a bordered editing area of fixed
// height and a status row:
//
//	[B] [I] [U] [H1] [H2] [P] ...
//	┌──────────────────────────┐
//	│Hello world               │
//	│                          │
//	└──────────────────────────┘
//	 notes.html [+]   Ln 1, Col 6 | All
//
// Terminal runs a single event loop. Every turn handles one event, renders
// the surface so that deferred selection restores run, then redraws the
// screen. Prompts for link and image URLs run a nested loop on the status
// row. Content from other goroutines, such as a file watcher, is posted
// into the loop with Update.
//
// Sub-packages:
//
//   - backend: tcell and in-memory displays
//   - layout: visual lines of a document tree
//   - statusline: the bottom row
package renderer
