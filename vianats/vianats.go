// Package vianats provides an embedded NATS server with JetStream as a
// pub/sub backend for via applications.
package vianats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats.go"
	via "github.com/ryanhamamura/viahooks"
)

const replayTimeout = 2 * time.Second

// NATS implements via.PubSub using an embedded NATS server with JetStream.
type NATS struct {
	server *embeddednats.Server
	nc     *nats.Conn
	js     nats.JetStreamContext
}

var _ via.PubSub = (*NATS)(nil)

// New starts an embedded NATS server with JetStream enabled and returns a
// ready-to-use NATS instance. The server stores data in dataDir and shuts
// down when ctx is cancelled.
func New(ctx context.Context, dataDir string) (*NATS, error) {
	ns, err := embeddednats.New(ctx, embeddednats.WithDirectory(dataDir))
	if err != nil {
		return nil, fmt.Errorf("vianats: start server: %w", err)
	}
	ns.WaitForServer()

	nc, err := ns.Client()
	if err != nil {
		ns.Close()
		return nil, fmt.Errorf("vianats: connect client: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Close()
		return nil, fmt.Errorf("vianats: init jetstream: %w", err)
	}

	return &NATS{server: ns, nc: nc, js: js}, nil
}

// Publish sends data to the given subject using core NATS publish.
// JetStream captures messages automatically if a matching stream exists.
func (n *NATS) Publish(subject string, data []byte) error {
	return n.nc.Publish(subject, data)
}

// Subscribe creates a core NATS subscription for real-time fan-out delivery.
func (n *NATS) Subscribe(subject string, handler func(data []byte)) (via.Subscription, error) {
	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("vianats: subscribe %s: %w", subject, err)
	}
	return sub, nil
}

// Close shuts down the client connection and embedded server.
func (n *NATS) Close() error {
	n.nc.Close()
	return n.server.Close()
}

// StreamConfig is the subset of JetStream stream settings the demos need.
type StreamConfig struct {
	Name     string
	Subjects []string
	MaxMsgs  int64
	MaxAge   time.Duration
}

// EnsureStream creates the stream described by cfg, or updates it when a
// stream with that name already exists.
func EnsureStream(n *NATS, cfg StreamConfig) error {
	sc := &nats.StreamConfig{
		Name:      cfg.Name,
		Subjects:  cfg.Subjects,
		Retention: nats.LimitsPolicy,
		MaxMsgs:   cfg.MaxMsgs,
		MaxAge:    cfg.MaxAge,
	}
	_, err := n.js.AddStream(sc)
	if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		_, err = n.js.UpdateStream(sc)
	}
	if err != nil {
		return fmt.Errorf("vianats: ensure stream %s: %w", cfg.Name, err)
	}
	return nil
}

// Replay calls fn with every message stream holds on subject, oldest first,
// and returns once the last stored message has been handled.
func (n *NATS) Replay(stream, subject string, fn func(data []byte)) error {
	info, err := n.js.StreamInfo(stream)
	if err != nil {
		return fmt.Errorf("vianats: replay %s: %w", stream, err)
	}
	if info.State.Msgs == 0 {
		return nil
	}
	sub, err := n.js.SubscribeSync(subject, nats.BindStream(stream), nats.OrderedConsumer(), nats.DeliverAll())
	if err != nil {
		return fmt.Errorf("vianats: replay %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	for {
		msg, err := sub.NextMsg(replayTimeout)
		if errors.Is(err, nats.ErrTimeout) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("vianats: replay %s: %w", subject, err)
		}
		fn(msg.Data)
		meta, err := msg.Metadata()
		if err != nil {
			return fmt.Errorf("vianats: replay %s: %w", subject, err)
		}
		if meta.NumPending == 0 {
			return nil
		}
	}
}
