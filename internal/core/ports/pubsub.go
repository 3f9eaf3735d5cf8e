package ports

// Topics of the notifications published by the trade engine.
const (
	AnyTopic          = "*"
	TradeOpenedTopic  = "trade_opened"
	TradeClosedTopic  = "trade_closed"
	TradeMatchedTopic = "trade_matched"
)

// Subscription is the info of a client subscribed for a topic.
type Subscription interface {
	Id() string
	Topic() string
	NotifyAt() string
	IsSecured() bool
}

// PubSub defines the methods of the notification service consumed by
// external indexers. Every state change of a trade request is published as
// a message for its topic.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic and returns
	// its id. An optional secret makes deliveries signed.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id.
	Unsubscribe(id string) error
	// ListSubscriptions returns the info of all subscriptions for a topic,
	// AnyTopic included.
	ListSubscriptions(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients
	// subscribed for such topic will receive the message.
	Publish(topic string, message string) error
	// Close should be used to gracefully stop the service.
	Close() error
}
