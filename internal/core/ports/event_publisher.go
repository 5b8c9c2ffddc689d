package ports

// EventPublisher is the outbound port for domain events.
// Command handlers publish after a successful commit; subscribers run
// synchronously in registration order. Delivery is in-process only;
// events are not persisted across restarts.
type EventPublisher interface {
	Publish(topic string, event any)
}
