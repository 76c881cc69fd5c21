package via

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ryanhamamura/viahooks/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPubSub delivers synchronously to active handlers.
type mockPubSub struct {
	mu   sync.Mutex
	subs map[string][]*mockSub
}

func newMockPubSub() *mockPubSub {
	return &mockPubSub{subs: make(map[string][]*mockSub)}
}

func (m *mockPubSub) Publish(subject string, data []byte) error {
	m.mu.Lock()
	subs := append([]*mockSub(nil), m.subs[subject]...)
	m.mu.Unlock()
	for _, s := range subs {
		if s.active.Load() {
			s.fn(data)
		}
	}
	return nil
}

func (m *mockPubSub) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &mockSub{fn: handler}
	s.active.Store(true)
	m.subs[subject] = append(m.subs[subject], s)
	return s, nil
}

func (m *mockPubSub) Close() error { return nil }

type mockSub struct {
	fn     func([]byte)
	active atomic.Bool
}

func (s *mockSub) Unsubscribe() error {
	s.active.Store(false)
	return nil
}

func newPubSubApp() *V {
	v := newTestApp()
	v.Config(Options{PubSub: newMockPubSub()})
	return v
}

func TestPubSub_FansOutToEveryPage(t *testing.T) {
	v := newPubSubApp()
	var got []string
	for _, id := range []string{"tab-1", "tab-2"} {
		c := newContext(id, "/", v)
		_, err := c.Subscribe("hooks.count", func(data []byte) {
			got = append(got, id+":"+string(data))
		})
		require.NoError(t, err)
	}

	require.NoError(t, newContext("tab-3", "/", v).Publish("hooks.count", []byte("7")))
	assert.Equal(t, []string{"tab-1:7", "tab-2:7"}, got)
}

func TestPubSub_Unsubscribe(t *testing.T) {
	c := newContext("page", "/", newPubSubApp())
	calls := 0
	sub, err := c.Subscribe("hooks.count", func([]byte) { calls++ })
	require.NoError(t, err)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, c.Publish("hooks.count", []byte("1")))
	assert.Zero(t, calls)
}

func TestPubSub_NotConfigured(t *testing.T) {
	c := newContext("page", "/", newTestApp())

	assert.ErrorIs(t, c.Publish("hooks.count", nil), errNoPubSub)
	sub, err := c.Subscribe("hooks.count", func([]byte) {})
	assert.ErrorIs(t, err, errNoPubSub)
	assert.Nil(t, sub)
}

func TestPubSub_IgnoredByRegistrationCheck(t *testing.T) {
	c := newContext("", "/", newPubSubApp())

	assert.NoError(t, c.Publish("hooks.count", nil))
	sub, err := c.Subscribe("hooks.count", func([]byte) {})
	assert.NoError(t, err)
	assert.Nil(t, sub)
}

func TestPubSub_ComponentSubscriptionsReleasedWithPage(t *testing.T) {
	page := newContext("page", "/", newPubSubApp())
	received := 0
	page.Component(func(c *Context) {
		_, err := c.Subscribe("hooks.count", func([]byte) { received++ })
		require.NoError(t, err)
		c.View(func() h.H { return h.Div() })
	})
	require.Len(t, page.subscriptions, 1)

	require.NoError(t, page.Publish("hooks.count", []byte("a")))
	page.dispose()
	require.NoError(t, page.Publish("hooks.count", []byte("b")))

	assert.Equal(t, 1, received)
	assert.Empty(t, page.subscriptions)
}
