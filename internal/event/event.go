package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/event/topic"
)

// Event is an immutable typed notification.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "content.changed").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string

	// CorrelationID links related events, such as every event caused by
	// one dispatch.
	CorrelationID string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// WithCorrelation returns a copy of the event with a correlation ID set.
func (e Event[T]) WithCorrelation(correlationID string) Event[T] {
	e.Metadata.CorrelationID = correlationID
	return e
}

// TopicProvider is implemented by values the bus can route.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by values that carry metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}
