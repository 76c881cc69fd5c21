package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// UseState is a counter held in a local State cell.
func UseState(c *via.Context) {
	value := hooks.NewState(0)

	decrement := c.Action(func() {
		value.Update(minusOne)
		c.Sync()
	})
	increment := c.Action(func() {
		value.Update(plusOne)
		c.Sync()
	})

	c.View(func() h.H {
		return h.Fragment(
			currentValue("state", value.Get()),
			counterButtons("state", decrement.OnClick(), increment.OnClick()),
		)
	})
}
