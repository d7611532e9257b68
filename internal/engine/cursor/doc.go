// Package cursor provides selection handling that survives tree rebuilds.
//
// The cursor package handles:
//
//   - Tree-relative selections with the anchor/focus model via Selection
//   - Tree-independent global offsets via Offsets
//   - Mapping a selection to offsets (Map, Capture)
//   - Resolving offsets back to a selection on another tree (Resolve,
//     ResolveSelection) and re-applying it to a surface (Restorer)
//
// Selection Model:
//
// A Point is a (node, offset) pair with DOM boundary-point semantics: for a
// text node the offset counts runes, for an element or document it counts
// children. A Selection pairs an Anchor (where the selection started) with a
// Focus (where the caret is). When Anchor == Focus the selection is a caret.
//
// Global Offsets:
//
// Offsets count characters over the concatenation of all text in document
// order. They do not depend on tree shape, so offsets captured before an
// edit can be resolved against the tree the edit produced:
//
//	off, ok := cursor.Map(before, sel)
//	// ... tree is sanitized and replaced ...
//	sel = cursor.ResolveSelection(after, off)
//
// Resolution never fails. Offsets past the end of a shorter tree clamp to
// the end of the last text node.
//
// Thread Safety:
//
// Point, Selection and Offsets are value types. Restorer holds no state
// beyond its configuration; the Surface it drives is owned by the caller.
package cursor
