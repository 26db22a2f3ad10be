package bus

import "time"

// EventBus is an in-process pub/sub bus connecting the simulator, the command
// dispatcher and the host adapters.
//
// Delivery is synchronous in the publisher's goroutine and routed by Event.Type().
// Handlers subscribed within a topic only see events published to that topic;
// the default topic is "". Handler errors are joined and returned from Publish.
// Handlers must be quick and must not publish back into the same event type.
type EventBus interface {
	// Publish delivers the event to every subscriber of its type in the default topic.
	Publish(event Event) error
	// PublishToTopic delivers the event within topic.
	PublishToTopic(topic string, event Event) error
	// PublishAsync publishes on a new goroutine; the channel yields the joined error and closes.
	PublishAsync(event Event) <-chan error

	// Subscribe registers handler for eventType in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeTopic registers handler for eventType within topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. Nil is a no-op.
	Unsubscribe(sub Subscription) error

	// AddObserver registers an observer. Metrics are only collected while one is registered.
	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Metrics() Metrics
	Topics() []TopicInfo
}

// Event is an immutable message on the bus.
type Event interface {
	ID() string
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Repeated calls are safe.
	Cancel() error
}

// Observer is notified about publishes and deliveries.
type Observer interface {
	OnPublish(topic string, event Event)
	OnDelivered(topic string, event Event, handlers int, err error, took time.Duration)
}

// Metrics are best-effort counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
	Topics            uint64
}

// TopicInfo describes one topic.
type TopicInfo struct {
	Name       string
	EventTypes int
	Subs       int
}
