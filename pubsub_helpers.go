package via

import (
	"encoding/json"
	"fmt"
)

// PublishJSON encodes msg as JSON and publishes it on subject.
func PublishJSON[T any](ps PubSub, subject string, msg T) error {
	if ps == nil {
		return errNoPubSub
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return ps.Publish(subject, data)
}

// SubscribeJSON decodes every message on subject as T before calling handler.
// Messages that do not decode are reported to bad, when non-nil, and dropped.
func SubscribeJSON[T any](ps PubSub, subject string, handler func(T), bad func(error)) (Subscription, error) {
	if ps == nil {
		return nil, errNoPubSub
	}
	return ps.Subscribe(subject, decodeJSON(subject, handler, bad))
}

func decodeJSON[T any](subject string, handler func(T), bad func(error)) func([]byte) {
	return func(data []byte) {
		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			if bad != nil {
				bad(fmt.Errorf("decode %s: %w", subject, err))
			}
			return
		}
		handler(msg)
	}
}

// Publish is PublishJSON on the app PubSub of c.
func Publish[T any](c *Context, subject string, msg T) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return c.Publish(subject, data)
}

// Subscribe is SubscribeJSON for c: the subscription is released with the
// page and bad messages are logged.
func Subscribe[T any](c *Context, subject string, handler func(T)) (Subscription, error) {
	return c.Subscribe(subject, decodeJSON(subject, handler, func(err error) {
		c.app.logWarn(c, "skipping message: %v", err)
	}))
}
