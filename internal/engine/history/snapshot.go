package history

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// Snapshot is the editor state before a committed edit.
type Snapshot struct {
	// Content is the policy-compliant serialized tree.
	Content string

	// Selection is the selection to restore with the content.
	Selection cursor.Offsets

	// Description names the edit that followed the snapshot.
	Description string

	// Group merges consecutive snapshots with the same non-empty key.
	Group string

	Timestamp time.Time
}

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

func (s Snapshot) info() OperationInfo {
	return OperationInfo{Description: s.Description, Timestamp: s.Timestamp}
}
