package demos

import (
	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
)

// UseReducer is a counter that only changes through dispatched actions.
func UseReducer(c *via.Context) {
	store := hooks.NewReducerStore(hooks.ReduceCounter, hooks.CounterState{Count: 0})

	dispatch := func(a hooks.Action) func() {
		return func() {
			store.Dispatch(a)
			c.Sync()
		}
	}
	decrement := c.Action(dispatch(hooks.Decrement))
	increment := c.Action(dispatch(hooks.Increment))

	c.View(func() h.H {
		return h.Fragment(
			currentValue("reducer", store.State().Count),
			counterButtons("reducer", decrement.OnClick(), increment.OnClick()),
		)
	})
}
