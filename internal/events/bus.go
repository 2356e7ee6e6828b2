package events

import (
	"github.com/kelindar/event"
)

// Bus wraps the kelindar/event dispatcher for in-process event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers an event to all subscribers of its concrete type.
// Usage: bus.Publish(DeviceLostEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so each known type
	// goes through the generic Publish with its own instantiation.
	switch e := ev.(type) {
	case CameraConnectedEvent:
		event.Publish(b.dispatcher, e)
	case CameraDisconnectedEvent:
		event.Publish(b.dispatcher, e)
	case DeviceLostEvent:
		event.Publish(b.dispatcher, e)
	case FrameDroppedEvent:
		event.Publish(b.dispatcher, e)
	case IngestErrorEvent:
		event.Publish(b.dispatcher, e)
	}
}

// SubscribeToChannel forwards events of type T into the given channel.
// Delivery is non-blocking; events are dropped when the channel is full so
// a slow consumer cannot stall the dispatcher. Returns an unsubscribe
// function.
func SubscribeToChannel[T event.Event](b *Bus, ch chan<- any) func() {
	return event.Subscribe(b.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}

// Subscribe registers a handler function; the handler's parameter type
// selects which events it receives. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e DeviceLostEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(CameraConnectedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraDisconnectedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeviceLostEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FrameDroppedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(IngestErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
