// Package demos holds the counter views: one per state pattern, the
// composite app page, the testing component and the shared counter page.
package demos

import (
	"fmt"

	"github.com/ryanhamamura/viahooks/h"
)

// currentValueTitle is the document title written by the effect demos.
func currentValueTitle(v int) string {
	return fmt.Sprintf("%d is the current value", v)
}

func plusOne(v int) int  { return v + 1 }
func minusOne(v int) int { return v - 1 }

// currentValue renders "Current value: <v>" with the number addressable as
// <prefix>-value.
func currentValue(prefix string, v int) h.H {
	return h.Div(
		h.Text("Current value: "),
		h.Span(h.TestID(prefix+"-value"), h.Textf("%d", v)),
	)
}

// counterButtons renders the Decrement and Increment buttons with the given
// action triggers.
func counterButtons(prefix string, decrement, increment h.H) h.H {
	return h.Fragment(
		h.Button(h.Type("button"), h.TestID(prefix+"-decrement"), h.Text("Decrement"), decrement),
		h.Button(h.Type("button"), h.TestID(prefix+"-increment"), h.Text("Increment"), increment),
	)
}
