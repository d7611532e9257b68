package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dshills/inkwell/internal/event/topic"
)

// Bus delivers events synchronously, in the publisher's goroutine, to every
// subscription whose pattern matches the event topic.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	seq    uint64
	closed atomic.Bool

	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus{config: config}
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if b.closed.Load() {
		return nil, ErrBusClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	sub := newSubscription(pattern, handler, b.seq, opts...)
	b.subs = append(b.subs, sub)
	slices.SortStableFunc(b.subs, func(x, y *Subscription) int {
		if x.config.Priority != y.config.Priority {
			return int(x.config.Priority) - int(y.config.Priority)
		}
		return int(x.seq) - int(y.seq)
	})
	return sub, nil
}

// SubscribeFunc subscribes a plain function.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.remove(sub) {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (b *Bus) remove(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.Index(b.subs, sub)
	if i < 0 {
		return false
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return true
}

// Publish delivers event to all matching subscriptions in priority order.
// A failing or panicking handler does not stop delivery to the others;
// their errors are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()

	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range subs {
		if !sub.shouldDeliver(t, event) {
			continue
		}
		if err := b.deliver(ctx, sub, t, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.eventsDelivered.Add(1)
		if sub.config.Once {
			sub.Cancel()
			b.remove(sub)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, t topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			perr := &PanicError{
				SubscriptionID: sub.id,
				Topic:          t.String(),
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			b.config.logger.Warn("event handler panicked",
				"topic", t.String(),
				"subscription", sub.id,
				"panic", fmt.Sprint(r))
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, perr)
			}
			err = perr
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		b.config.logger.Debug("event handler failed", "topic", t.String(), "error", herr)
		return &HandlerError{SubscriptionID: sub.id, Topic: t.String(), Err: herr}
	}
	return nil
}

// Close rejects further publishing and drops every subscription.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.mu.Lock()
	for _, sub := range b.subs {
		sub.Cancel()
	}
	b.subs = nil
	b.mu.Unlock()
}

// Closed reports whether Close was called.
func (b *Bus) Closed() bool {
	return b.closed.Load()
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, sub := range b.subs {
		if sub.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
