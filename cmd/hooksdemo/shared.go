package main

import (
	"encoding/json"
	"fmt"

	"github.com/ryanhamamura/viahooks/internal/demos"
	"github.com/ryanhamamura/viahooks/vianats"
)

// replaySharedCount sums the shared counter deltas kept by JetStream.
func replaySharedCount(ps *vianats.NATS) (int, error) {
	count := 0
	var decodeErr error
	err := ps.Replay(sharedStream, demos.SharedSubject, func(data []byte) {
		var d demos.SharedDelta
		if err := json.Unmarshal(data, &d); err != nil {
			decodeErr = fmt.Errorf("decode shared delta: %w", err)
			return
		}
		count += d.Delta
	})
	if err != nil {
		return 0, err
	}
	return count, decodeErr
}
