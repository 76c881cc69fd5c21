package vianats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *NATS {
	t.Helper()
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	ctx, cancel := context.WithCancel(context.Background())
	n, err := New(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = n.Close()
		cancel()
	})
	return n
}

func TestNATS_PublishSubscribe(t *testing.T) {
	n := startNATS(t)

	got := make(chan []byte, 1)
	sub, err := n.Subscribe("hooks.test", func(data []byte) { got <- data })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, n.Publish("hooks.test", []byte(`{"count":1}`)))

	select {
	case data := <-got:
		assert.JSONEq(t, `{"count":1}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestNATS_ReplayStream(t *testing.T) {
	n := startNATS(t)
	cfg := StreamConfig{Name: "HOOKS_TEST", Subjects: []string{"hooks.kept.>"}}
	require.NoError(t, EnsureStream(n, cfg))
	cfg.MaxAge = time.Hour
	require.NoError(t, EnsureStream(n, cfg), "existing streams are updated")

	var got []string
	require.NoError(t, n.Replay("HOOKS_TEST", "hooks.kept.count", func(data []byte) {
		got = append(got, string(data))
	}))
	assert.Empty(t, got)

	for _, d := range []string{"1", "-1", "1"} {
		require.NoError(t, n.Publish("hooks.kept.count", []byte(d)))
	}

	require.Eventually(t, func() bool {
		got = nil
		err := n.Replay("HOOKS_TEST", "hooks.kept.count", func(data []byte) {
			got = append(got, string(data))
		})
		return err == nil && len(got) == 3
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, []string{"1", "-1", "1"}, got)
}

func TestNATS_ReplayMissingStream(t *testing.T) {
	n := startNATS(t)
	err := n.Replay("NOPE", "hooks.none", func([]byte) {})
	assert.Error(t, err)
}
