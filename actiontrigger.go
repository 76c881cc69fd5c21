package via

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanhamamura/viahooks/h"
)

// actionTrigger binds a registered action to DOM events.
type actionTrigger struct {
	id string
}

// ID returns the action id used in the action URL.
func (a *actionTrigger) ID() string {
	return a.id
}

// ActionTriggerOption adds an assignment that runs in the browser before
// the action request is sent.
type ActionTriggerOption func(assigns *[]string)

// WithSignal sets sig to the string value before the action fires.
func WithSignal(sig *signal, value string) ActionTriggerOption {
	return func(assigns *[]string) {
		*assigns = append(*assigns, fmt.Sprintf("$%s='%s'", sig.ID(), value))
	}
}

// WithSignalInt sets sig to the int value before the action fires.
func WithSignalInt(sig *signal, value int) ActionTriggerOption {
	return func(assigns *[]string) {
		*assigns = append(*assigns, "$"+sig.ID()+"="+strconv.Itoa(value))
	}
}

// expr renders the Datastar expression: the assignments, each terminated
// by ';', followed by the action request.
func (a *actionTrigger) expr(options []ActionTriggerOption) string {
	var assigns []string
	for _, opt := range options {
		opt(&assigns)
	}
	var b strings.Builder
	for _, s := range assigns {
		b.WriteString(s)
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "@get('/_action/%s')", a.id)
	return b.String()
}

// OnClick fires the action when the element is clicked.
func (a *actionTrigger) OnClick(options ...ActionTriggerOption) h.H {
	return h.Data("on:click", a.expr(options))
}

// OnChange fires the action when the input value is committed.
func (a *actionTrigger) OnChange(options ...ActionTriggerOption) h.H {
	return h.Data("on:change__debounce.200ms", a.expr(options))
}

// OnInput fires the action on every input event, e.g. each keystroke or
// spinner step of a number field. Events are not debounced.
func (a *actionTrigger) OnInput(options ...ActionTriggerOption) h.H {
	return h.Data("on:input", a.expr(options))
}
