package via

import (
	"fmt"
	"strconv"

	"github.com/ryanhamamura/viahooks/h"
)

// Signal represents a value that is reactive in the browser. Signals
// are synced with the server right before an action triggers.
//
// Use Bind() to connect a signal to an input element.
type signal struct {
	id      string
	val     any
	changed bool
	err     error
}

// ID returns the signal ID
func (s *signal) ID() string {
	return s.id
}

// Err returns a signal error or nil if it contains no error.
func (s *signal) Err() error {
	return s.err
}

// Bind binds this signal to an input element. When the input changes
// its value the signal updates in real-time in the browser.
//
// Example:
//
//	h.Input(h.Type("number"), amount.Bind())
func (s *signal) Bind() h.H {
	return h.Data("bind", s.id)
}

// SetValue updates the signal’s value and marks it for synchronization with the browser.
// The change will be propagated to the browser using *Context.Sync() or *Context.SyncSignals().
func (s *signal) SetValue(v any) {
	s.val = v
	s.changed = true
	s.err = nil
}

// String return the signal value as a string. Whole float64 values, which is
// how JSON numbers arrive from the browser, are printed without a fraction.
func (s *signal) String() string {
	if f, ok := s.val.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", s.val)
}

// Int tries to read the signal value as an int.
// Returns the value or 0 on failure.
func (s *signal) Int() int {
	if n, err := strconv.Atoi(s.String()); err == nil {
		return n
	}
	return 0
}
