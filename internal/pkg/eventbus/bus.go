// Package eventbus provides a typed in-process publish/subscribe channel.
// Topics are plain strings, handlers are invoked synchronously in
// registration order, and delivery is not persisted across restarts.
package eventbus

import "sync"

// Handler consumes a single published event payload.
type Handler func(event any)

// Bus is a topic-keyed registry of subscriber callbacks.
// It is safe for concurrent use; publishing from timer goroutines and
// subscribing from request handlers may interleave freely.
type Bus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[string][]subscriber
}

type subscriber struct {
	id      int
	handler Handler
}

// New creates an empty event bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[string][]subscriber),
	}
}

// Subscribe registers a handler for a topic and returns a Subscription
// that can later detach it. Handlers for the same topic run in the order
// they were registered.
func (b *Bus) Subscribe(topic string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subscribers[topic] = append(b.subscribers[topic], subscriber{
		id:      b.nextID,
		handler: handler,
	})

	return &Subscription{bus: b, topic: topic, id: b.nextID}
}

// Publish delivers the event to every handler subscribed to the topic.
// Handlers run synchronously on the caller's goroutine; a handler that
// subscribes or unsubscribes during delivery does not affect the current
// delivery round.
func (b *Bus) Publish(topic string, event any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[topic]))
	for _, sub := range b.subscribers[topic] {
		handlers = append(handlers, sub.handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Subscription identifies one registered handler on one topic.
type Subscription struct {
	bus   *Bus
	topic string
	id    int
}

// Unsubscribe detaches the handler from its topic. Calling it more than
// once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subscribers[s.topic]
	for i, sub := range subs {
		if sub.id == s.id {
			s.bus.subscribers[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.bus = nil
}
