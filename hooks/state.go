package hooks

import "sync"

// State is a single mutable value local to one view.
//
// Example:
//
//	count := hooks.NewState(0)
//	count.OnChange(func(int) { c.Sync() })
//	count.Update(func(n int) int { return n + 1 })
type State[T any] struct {
	mu        sync.RWMutex
	val       T
	listeners listeners[T]
}

// NewState creates a State holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{val: initial}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val
}

// Set replaces the value and notifies every OnChange listener.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	s.val = v
	s.mu.Unlock()
	s.listeners.notify(v)
}

// Update applies fn to the current value atomically, stores the result and
// notifies listeners. It returns the new value.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	v := fn(s.val)
	s.val = v
	s.mu.Unlock()
	s.listeners.notify(v)
	return v
}

// OnChange registers fn to run after every Set or Update.
func (s *State[T]) OnChange(fn func(T)) (unsubscribe func()) {
	return s.listeners.add(Listener[T](fn))
}
