package via

// PubSub is a publish/subscribe messaging backend shared by every page of
// the application. The vianats sub-package provides an embedded NATS
// implementation.
type PubSub interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (Subscription, error)
	Close() error
}

// Subscription represents an active subscription that can be manually unsubscribed.
type Subscription interface {
	Unsubscribe() error
}
