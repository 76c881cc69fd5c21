package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// UseEffect is the UseState counter plus an effect that writes the value
// into the document title after every render.
func UseEffect(c *via.Context) {
	value := hooks.NewState(0)

	c.Effect(func() {
		c.SetTitle(currentValueTitle(value.Get()))
	})

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
			currentValue("effect", value.Get()),
			counterButtons("effect", decrement.OnClick(), increment.OnClick()),
		)
	})
}
