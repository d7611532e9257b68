package tree

import "errors"

// Errors returned by tree operations.
var (
	// ErrParse indicates the content string could not be parsed.
	ErrParse = errors.New("tree: parse failed")

	// ErrNotFound indicates a node is not part of the tree being searched.
	ErrNotFound = errors.New("tree: node not found")
)
