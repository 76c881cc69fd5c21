package demos

import (
	"fmt"

	"github.com/rs/zerolog"
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// SharedSubject carries shared counter deltas between processes.
const SharedSubject = "hooks.shared.count"

const sessionClicksKey = "shared-clicks"

// SharedDelta is the message published for every click on the shared page.
// Subscribers add Delta to their own count, so concurrent writers never
// overwrite each other.
type SharedDelta struct {
	Delta int `json:"delta"`
}

// SharedCounter is a CounterStore shared by every page of the process. With
// a PubSub, deltas are published and applied from the subscription so every
// process that subscribes sees every click.
type SharedCounter struct {
	store  *hooks.CounterStore
	ps     via.PubSub
	sub    via.Subscription
	logger zerolog.Logger
}

// NewSharedCounter creates a SharedCounter starting at initial. ps may be
// nil, in which case updates are applied locally.
func NewSharedCounter(initial int, ps via.PubSub, logger zerolog.Logger) (*SharedCounter, error) {
	s := &SharedCounter{
		store:  hooks.NewStore(hooks.CounterState{Count: initial}, hooks.MergeCounter),
		ps:     ps,
		logger: logger,
	}
	if ps == nil {
		return s, nil
	}
	sub, err := via.SubscribeJSON(ps, SharedSubject, s.apply, func(err error) {
		s.logger.Warn().Err(err).Msg("shared counter: bad message")
	})
	if err != nil {
		return nil, fmt.Errorf("shared counter: subscribe: %w", err)
	}
	s.sub = sub
	return s, nil
}

func (s *SharedCounter) apply(d SharedDelta) {
	s.store.UpdateFunc(hooks.AddCount(d.Delta))
}

// Store returns the underlying store for subscriptions.
func (s *SharedCounter) Store() *hooks.CounterStore {
	return s.store
}

// Add moves the count by delta. With a PubSub the change lands when the
// published delta comes back on the subscription.
func (s *SharedCounter) Add(delta int) error {
	if s.ps == nil {
		s.apply(SharedDelta{Delta: delta})
		return nil
	}
	if err := via.PublishJSON(s.ps, SharedSubject, SharedDelta{Delta: delta}); err != nil {
		return fmt.Errorf("shared counter: publish: %w", err)
	}
	return nil
}

// Close releases the PubSub subscription.
func (s *SharedCounter) Close() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Unsubscribe()
}

// SharedPage renders the process-wide counter along with the number of
// clicks made from the current browser session.
func SharedPage(shared *SharedCounter) func(c *via.Context) {
	return func(c *via.Context) {
		store := shared.Store()
		// writes from other pages only touch the number
		c.OnDispose(store.Subscribe(func(st hooks.CounterState) {
			c.SyncElements(sharedValue(st.Count))
		}))

		add := func(delta int) func() {
			return func() {
				if err := shared.Add(delta); err != nil {
					c.Logger().Error().Err(err).Msg("shared counter update failed")
					return
				}
				c.Session().Incr(sessionClicksKey, 1)
				c.Sync()
			}
		}
		decrement := c.Action(add(-1))
		increment := c.Action(add(1))

		c.View(func() h.H {
			return h.Fragment(
				h.Div(h.Text("Current value: "), sharedValue(store.GetState().Count)),
				counterButtons("shared", decrement.OnClick(), increment.OnClick()),
				h.P(h.TestID("shared-clicks"), h.Textf("%d", c.Session().GetInt(sessionClicksKey))),
			)
		})
	}
}

func sharedValue(n int) h.H {
	return h.Span(h.ID("shared-count"), h.TestID("shared-value"), h.Textf("%d", n))
}
