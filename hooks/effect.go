package hooks

import (
	"reflect"
	"sync"
)

// Effect is a side effect that runs after a view renders.
//
// An Effect built with NewEffect runs on every Run. One built with
// NewEffectOn runs on the first Run and then only when its tracked values
// change.
type Effect struct {
	mu   sync.Mutex
	fn   func()
	deps func() []any
	prev []any
	ran  bool
}

// NewEffect returns an Effect that runs fn on every Run.
func NewEffect(fn func()) *Effect {
	return &Effect{fn: fn}
}

// NewEffectOn returns an Effect that runs fn only when the values returned
// by deps differ from the previous run. Values are compared with
// reflect.DeepEqual.
func NewEffectOn(fn func(), deps func() []any) *Effect {
	return &Effect{fn: fn, deps: deps}
}

// Run executes the effect if it is due and reports whether it ran.
func (e *Effect) Run() bool {
	if e == nil || e.fn == nil {
		return false
	}
	e.mu.Lock()
	if e.deps != nil {
		next := e.deps()
		if e.ran && reflect.DeepEqual(e.prev, next) {
			e.mu.Unlock()
			return false
		}
		e.prev = next
	}
	e.ran = true
	e.mu.Unlock()

	e.fn()
	return true
}
