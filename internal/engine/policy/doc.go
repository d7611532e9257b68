// Package policy enforces the formatting policy on document trees.
//
// Enforce rewrites an arbitrary tree into one that only contains
// allow-listed elements and attributes and that respects the nesting rules
// the offset walks depend on:
//
//   - Elements outside the allow-list are unwrapped (their children move up
//     into their place). Elements in the drop-content set, such as script
//     and style, are removed together with their content.
//   - Each element keeps only its intrinsic attributes plus "style".
//     href and src values with a scheme outside the allow-list are dropped.
//   - A paragraph holding a block-level child is promoted: the paragraph is
//     replaced by the block's own tag, and the block's children are attached
//     directly to the replacement.
//   - Empty text nodes are dropped, adjacent text siblings are merged, and
//     void elements lose any children.
//
// Enforce is pure and idempotent. It never fails; violations are corrected
// silently.
package policy
