// Package format implements the native formatting primitives of the
// editing surface.
//
// Each primitive edits a document tree in place at a selection expressed in
// points of that same tree. Callers hand in a private copy (see
// cursor.Rebase) so a discarded edit leaves the committed tree untouched.
//
// Primitives report what they did through Result. Edits that move the caret,
// such as typing or splitting a paragraph, return the new caret as global
// offsets computed on the edited tree; all others keep the caller's
// selection.
//
// The output is not policy-compliant by itself: adjacent text nodes are
// left unmerged and promoted structures are left in place. Run the policy
// enforcer before committing.
package format
