// Package events defines the topics and payload types published by the
// editor.
//
// Subscribers receive event.Event[T] values where T is one of the payload
// types below:
//
//	bus.Subscribe(events.TopicContentChanged, event.AsHandler(
//		func(ctx context.Context, e event.Event[events.ContentChanged]) error {
//			save(e.Payload.Markup)
//			return nil
//		}))
package events
