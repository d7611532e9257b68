package events

import (
	"time"

	"github.com/dshills/inkwell/internal/event/topic"
)

// Editor event topics.
const (
	// TopicContentChanged is published after every committed mutation.
	TopicContentChanged topic.Topic = "content.changed"

	// TopicContentSet is published when content is replaced from outside
	// through SetContent. Content listeners are not notified.
	TopicContentSet topic.Topic = "content.set"

	// TopicSelectionRestored is published when a deferred restore lands.
	TopicSelectionRestored topic.Topic = "selection.restored"

	// TopicActionDispatched is published after every dispatch.
	TopicActionDispatched topic.Topic = "action.dispatched"

	// TopicConfigReloaded is published when a watched config file changes.
	TopicConfigReloaded topic.Topic = "config.reloaded"
)

// ContentChanged carries the serialized, policy-compliant tree.
type ContentChanged struct {
	// EditorID identifies the editor instance.
	EditorID string

	// Markup is the committed content.
	Markup string

	// Description names the action that produced the change.
	Description string

	// Group is the history group key, empty for ungrouped actions.
	Group string

	// Undo is set for changes produced by undo or redo.
	Undo bool
}

// ContentSet carries content replaced from outside.
type ContentSet struct {
	EditorID string
	Markup   string
}

// SelectionRestored carries the offsets a deferred restore applied.
type SelectionRestored struct {
	EditorID  string
	Start     int
	End       int
	Collapsed bool
}

// ActionDispatched summarizes one dispatch.
type ActionDispatched struct {
	EditorID string
	Action   string
	Status   string
	Message  string
	Duration time.Duration
}

// ConfigReloaded reports a config file reload.
type ConfigReloaded struct {
	Path string
	Err  error
}
