package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/event/topic"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means delivery is suspended.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription is permanently
	// cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is a handler bound to a topic pattern.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig
	seq     uint64
	state   atomic.Int32
}

func newSubscription(pattern topic.Topic, h Handler, seq uint64, opts ...SubscriptionOption) *Subscription {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: h,
		config:  config,
		seq:     seq,
	}
}

// ID returns the subscription ID.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic pattern.
func (s *Subscription) Topic() topic.Topic {
	return s.pattern
}

// Config returns the subscription configuration.
func (s *Subscription) Config() SubscriptionConfig {
	return s.config
}

// State returns the current subscription state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *Subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Pause temporarily stops event delivery.
func (s *Subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

// Resume restarts event delivery after a pause.
func (s *Subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

// Cancel permanently cancels the subscription.
func (s *Subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

func (s *Subscription) shouldDeliver(t topic.Topic, event any) bool {
	if !s.IsActive() || !t.Matches(s.pattern) {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(event)
}
