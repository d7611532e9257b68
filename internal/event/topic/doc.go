// Package topic provides hierarchical topic names and wildcard matching for
// the event bus.
//
// Topics use dot notation:
//
//	content.changed
//	content.set
//	selection.restored
//
// Two wildcards are supported in subscription patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	content.*     matches content.changed, content.set
//	**            matches everything
//	*.restored    matches selection.restored
package topic
