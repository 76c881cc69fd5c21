package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// TestingComponent is the minimal counter exercised by the view tests: the
// value is rendered in #counter and #increment adds one per click.
func TestingComponent(c *via.Context) {
	value := hooks.NewState(0)

	increment := c.Action(func() {
		value.Update(plusOne)
		c.Sync()
	})

	c.View(func() h.H {
		return h.Fragment(
			h.Div(h.ID("counter"), h.Textf("%d", value.Get())),
			h.Button(h.Type("button"), h.ID("increment"), h.Text("Increment value"), increment.OnClick()),
		)
	})
}
