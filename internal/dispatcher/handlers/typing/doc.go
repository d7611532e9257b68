// Package typing provides handlers for native typing on the surface.
//
// TypingHandler covers insert-text, delete-backward, delete-forward and
// enter. Each moves the caret, so its result carries a caret override.
// Enter splits the nearest block at the caret and places the caret at the
// start of the new block.
//
// SurfaceHandler covers input and commit. Input re-sanitizes a tree the
// host already edited in place; commit re-sanitizes and emits without
// touching the selection, as when the surface loses focus.
package typing
