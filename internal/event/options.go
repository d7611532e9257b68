package event

import "github.com/dshills/inkwell/internal/logging"

// BusOption configures a Bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	logger       *logging.Logger
}

func defaultBusConfig() busConfig {
	return busConfig{logger: logging.Nop()}
}

// WithPanicHandler sets the function called when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		if h != nil {
			c.panicHandler = h
		}
	}
}

// WithLogger sets the logger used for handler failures.
func WithLogger(l *logging.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l.WithComponent("event")
		}
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter, when set, must return true for an event to be delivered.
	Filter FilterFunc

	// Once cancels the subscription after its first successful delivery.
	Once bool
}

// DefaultSubscriptionConfig returns a default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce sets the subscription to auto-cancel after the first event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}
