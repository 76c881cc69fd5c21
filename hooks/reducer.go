package hooks

import "sync"

const (
	ActionIncrement = "INCREMENT"
	ActionDecrement = "DECREMENT"
)

// Action names a requested state transition.
type Action struct {
	Type string `json:"type"`
}

var (
	Increment = Action{Type: ActionIncrement}
	Decrement = Action{Type: ActionDecrement}
)

// Reducer maps a state and an action to the next state. It must be pure.
type Reducer[S, A any] func(s S, a A) S

// ReduceCounter handles Increment and Decrement. Any other action returns s
// unchanged. Count is not clamped.
func ReduceCounter(s CounterState, a Action) CounterState {
	switch a.Type {
	case ActionIncrement:
		s.Count++
		return s
	case ActionDecrement:
		s.Count--
		return s
	default:
		return s
	}
}

// ReducerStore holds state that only changes through Dispatch.
type ReducerStore[S, A any] struct {
	mu        sync.RWMutex
	state     S
	reduce    Reducer[S, A]
	listeners listeners[S]
}

// NewReducerStore creates a ReducerStore.
func NewReducerStore[S, A any](reduce Reducer[S, A], initial S) *ReducerStore[S, A] {
	if reduce == nil {
		panic("hooks: nil reducer")
	}
	return &ReducerStore[S, A]{state: initial, reduce: reduce}
}

// State returns the current state.
func (r *ReducerStore[S, A]) State() S {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Dispatch reduces a into the current state, notifies subscribers and
// returns the new state.
func (r *ReducerStore[S, A]) Dispatch(a A) S {
	r.mu.Lock()
	next := r.reduce(r.state, a)
	r.state = next
	r.mu.Unlock()
	r.listeners.notify(next)
	return next
}

// Subscribe registers l to be called after every Dispatch.
func (r *ReducerStore[S, A]) Subscribe(l Listener[S]) (unsubscribe func()) {
	return r.listeners.add(l)
}
