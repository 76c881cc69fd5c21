package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// UseContext is the provider: it owns a CounterStore and hands it to its
// consumers instead of passing values down.
func UseContext(c *via.Context) {
	store := hooks.NewCounterStore()
	button := c.Component(counterConsumer(store))
	badge := c.Component(subscriberBadge(store))

	c.View(func() h.H {
		return h.Fragment(button(), badge())
	})
}

// useCounterStore subscribes the component to store so every update
// re-renders it, and releases the subscription with the page.
func useCounterStore(c *via.Context, store *hooks.CounterStore) {
	c.OnDispose(store.Subscribe(func(hooks.CounterState) {
		c.Sync()
	}))
}

func counterConsumer(store *hooks.CounterStore) func(c *via.Context) {
	return func(c *via.Context) {
		useCounterStore(c, store)

		decrement := c.Action(func() {
			store.UpdateFunc(hooks.AddCount(-1))
		})
		increment := c.Action(func() {
			store.UpdateFunc(hooks.AddCount(1))
		})

		c.View(func() h.H {
			return h.Fragment(
				currentValue("context", store.GetState().Count),
				counterButtons("context", decrement.OnClick(), increment.OnClick()),
			)
		})
	}
}

// subscriberBadge is a second consumer that only reads the store.
func subscriberBadge(store *hooks.CounterStore) func(c *via.Context) {
	return func(c *via.Context) {
		useCounterStore(c, store)

		c.View(func() h.H {
			return h.Small(
				h.TestID("context-badge"),
				h.Textf("seen by %d subscribers: %d", store.Subscribers(), store.GetState().Count),
			)
		})
	}
}
