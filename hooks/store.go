package hooks

import "sync"

// MergeFunc folds a partial update into the current state and returns the
// replacement state. It must not mutate s.
type MergeFunc[S, P any] func(s S, partial P) S

// Store is state shared by reference between every view that subscribes to
// it. Update is the only writer.
type Store[S, P any] struct {
	mu        sync.RWMutex
	state     S
	merge     MergeFunc[S, P]
	listeners listeners[S]
}

// NewStore creates a Store with the given initial state and merge func.
func NewStore[S, P any](initial S, merge MergeFunc[S, P]) *Store[S, P] {
	if merge == nil {
		panic("hooks: nil merge func")
	}
	return &Store[S, P]{state: initial, merge: merge}
}

// GetState returns the current state.
func (s *Store[S, P]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l to be called with the new state after every Update.
// Calling the returned func more than once is a no-op.
func (s *Store[S, P]) Subscribe(l Listener[S]) (unsubscribe func()) {
	return s.listeners.add(l)
}

// Update merges partial into the current state unconditionally and notifies
// all subscribers, in subscription order, before returning.
func (s *Store[S, P]) Update(partial P) S {
	s.mu.Lock()
	next := s.merge(s.state, partial)
	s.state = next
	s.mu.Unlock()
	s.listeners.notify(next)
	return next
}

// UpdateFunc is Update with the partial computed from the current state
// under the store lock, so concurrent read-modify-writes are not lost.
//
//	store.UpdateFunc(func(s CounterState) CounterPatch { return SetCount(s.Count + 1) })
func (s *Store[S, P]) UpdateFunc(fn func(S) P) S {
	s.mu.Lock()
	next := s.merge(s.state, fn(s.state))
	s.state = next
	s.mu.Unlock()
	s.listeners.notify(next)
	return next
}

// AddCount returns the UpdateFunc argument that moves Count by delta.
func AddCount(delta int) func(CounterState) CounterPatch {
	return func(s CounterState) CounterPatch { return SetCount(s.Count + delta) }
}

// Subscribers returns the number of active subscriptions.
func (s *Store[S, P]) Subscribers() int {
	return s.listeners.len()
}

// CounterState is the state shared by the counter demos.
type CounterState struct {
	Count int `json:"count"`
}

// CounterPatch is a partial CounterState. Nil fields keep their current
// value.
type CounterPatch struct {
	Count *int `json:"count,omitempty"`
}

// SetCount returns a patch that replaces Count with n.
func SetCount(n int) CounterPatch {
	return CounterPatch{Count: &n}
}

// MergeCounter shallow-merges p into s.
func MergeCounter(s CounterState, p CounterPatch) CounterState {
	if p.Count != nil {
		s.Count = *p.Count
	}
	return s
}

// CounterStore is a Store of CounterState.
type CounterStore = Store[CounterState, CounterPatch]

// NewCounterStore returns a CounterStore starting at {Count: 0}.
func NewCounterStore() *CounterStore {
	return NewStore(CounterState{}, MergeCounter)
}
