package hooks

import "sync"

// Listener receives the committed state after every change.
type Listener[S any] func(S)

// listeners is an ordered set of subscribers shared by State, Store and
// ReducerStore.
type listeners[S any] struct {
	mu    sync.Mutex
	next  uint64
	order []uint64
	fns   map[uint64]Listener[S]
}

func (l *listeners[S]) add(fn Listener[S]) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[uint64]Listener[S])
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[S]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fns, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *listeners[S]) snapshot() []Listener[S] {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := make([]Listener[S], 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.fns[id])
	}
	return fns
}

func (l *listeners[S]) notify(s S) {
	for _, fn := range l.snapshot() {
		fn(s)
	}
}

func (l *listeners[S]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
