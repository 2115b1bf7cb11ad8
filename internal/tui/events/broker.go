package events

import (
	"sync"
)

// Broker manages event distribution
type Broker struct {
	subscribers map[EventType][]chan Event
	mu          sync.RWMutex
	bufferSize  int
}

// DefaultBufferSize is the per-subscription buffer. A scroll frame can
// publish one event per crossed watcher.
const DefaultBufferSize = 64

// NewBroker creates a new event broker. bufferSize <= 0 uses
// DefaultBufferSize.
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broker{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to specific event types
func (b *Broker) Subscribe(eventTypes ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)

	// If no specific types provided, subscribe to all
	if len(eventTypes) == 0 {
		eventTypes = []EventType{Wildcard}
	}

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}

	return ch
}

// Unsubscribe removes a subscription. The channel is closed once no event
// type refers to it.
func (b *Broker) Unsubscribe(ch <-chan Event, eventTypes ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no specific types provided, unsubscribe from all
	if len(eventTypes) == 0 {
		for eventType := range b.subscribers {
			eventTypes = append(eventTypes, eventType)
		}
	}

	var removed chan Event
	for _, eventType := range eventTypes {
		if c := b.removeChannel(eventType, ch); c != nil {
			removed = c
		}
	}
	if removed != nil && !b.subscribed(ch) {
		close(removed)
	}
}

// Publish sends an event to all subscribers
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Send to specific subscribers
	if subscribers, ok := b.subscribers[event.Type]; ok {
		for _, ch := range subscribers {
			select {
			case ch <- event:
			default:
				// Channel full, skip this event
			}
		}
	}

	// Send to wildcard subscribers
	if wildcards, ok := b.subscribers[Wildcard]; ok {
		for _, ch := range wildcards {
			select {
			case ch <- event:
			default:
				// Channel full, skip this event
			}
		}
	}
}

// PublishAsync sends an event asynchronously
func (b *Broker) PublishAsync(event Event) {
	go b.Publish(event)
}

// Drain returns the events already buffered on ch without blocking.
func Drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// removeChannel removes a channel from a specific event type's subscribers
func (b *Broker) removeChannel(eventType EventType, target <-chan Event) chan Event {
	subscribers := b.subscribers[eventType]
	var removed chan Event
	for i, ch := range subscribers {
		if ch == target {
			removed = ch
			b.subscribers[eventType] = append(subscribers[:i], subscribers[i+1:]...)
			break
		}
	}

	// Clean up empty subscriber lists
	if len(b.subscribers[eventType]) == 0 {
		delete(b.subscribers, eventType)
	}
	return removed
}

func (b *Broker) subscribed(target <-chan Event) bool {
	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			if ch == target {
				return true
			}
		}
	}
	return false
}

// Clear removes all subscriptions
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := make(map[chan Event]bool)
	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}

	b.subscribers = make(map[EventType][]chan Event)
}
