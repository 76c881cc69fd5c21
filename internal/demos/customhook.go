package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// useCounter is the reusable counter: a hooks.Counter whose effect writes
// the value into the document title.
func useCounter(c *via.Context, initial int) *hooks.Counter {
	return hooks.NewCounter(initial, func(v int) {
		c.SetTitle(currentValueTitle(v))
	})
}

// CustomHook drives useCounter with Decrement and Increment buttons.
func CustomHook(c *via.Context) {
	counter := useCounter(c, 0)

	decrement := c.Action(func() {
		counter.Increment(-1)
		c.Sync()
	})
	increment := c.Action(func() {
		counter.Increment(1)
		c.Sync()
	})

	c.View(func() h.H {
		return h.Fragment(
			currentValue("hook", counter.Value()),
			counterButtons("hook", decrement.OnClick(), increment.OnClick()),
		)
	})
}

// CustomHookInput drives useCounter, starting at 50, from a number input:
// every change increments by the typed amount. Text without a leading
// integer is reported and leaves the value unchanged.
func CustomHookInput(c *via.Context) {
	counter := useCounter(c, 50)
	amount := c.Signal("")
	invalid := hooks.NewState("")

	incrementBy := c.Action(func() {
		text := amount.String()
		if _, err := counter.IncrementText(text); err != nil {
			c.Logger().Debug().Err(err).Msg("increment skipped")
			invalid.Set(text)
		} else {
			invalid.Set("")
		}
		c.Sync()
	})

	c.View(func() h.H {
		bad := invalid.Get()
		return h.Fragment(
			currentValue("hook-input", counter.Value()),
			h.Label(h.For("amount"), h.Text("Increment by number:")),
			h.Input(h.Type("number"), h.ID("amount"), amount.Bind(), incrementBy.OnInput()),
			h.If(bad != "", h.P(h.TestID("hook-input-error"), h.Class("error"),
				h.Textf("%q is not a number", bad))),
		)
	})
}
