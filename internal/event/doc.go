// Package event provides the editor's change notification bus.
//
// Events are typed values (Event[T]) routed by hierarchical topic. Delivery
// is synchronous: Publish returns after every matching handler ran, in
// priority order. A handler that fails or panics does not stop delivery to
// the others.
//
// # Wildcard Patterns
//
//	content.*    - matches content.changed, content.set
//	**           - matches every topic
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//	defer bus.Close()
//
//	sub, err := bus.Subscribe(events.TopicContentChanged, event.AsHandler(
//		func(ctx context.Context, e event.Event[events.ContentChanged]) error {
//			fmt.Println(e.Payload.Markup)
//			return nil
//		}),
//		event.WithPriority(event.PriorityHigh),
//	)
//
//	evt := event.NewEvent(events.TopicContentChanged, payload, "engine")
//	err = bus.Publish(ctx, evt)
//
// # Thread Safety
//
// The Bus is safe for concurrent use. Subscriptions can be added or removed
// while events are being published; each Publish works on a snapshot.
//
// # Subpackages
//
//   - events: editor topics and payload types
//   - topic: topic names and wildcard matching
package event
