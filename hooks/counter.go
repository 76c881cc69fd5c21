package hooks

// Counter is a reusable counter: a State cell plus an increment operation
// and an effect that runs after every change.
type Counter struct {
	state *State[int]
}

// NewCounter creates a Counter starting at initial. If effect is not nil it
// runs once immediately and then after every committed change.
func NewCounter(initial int, effect func(int)) *Counter {
	c := &Counter{state: NewState(initial)}
	if effect != nil {
		c.state.OnChange(effect)
		effect(initial)
	}
	return c
}

// Value returns the current value.
func (c *Counter) Value() int {
	return c.state.Get()
}

// Increment adds amount to the value and returns the result.
func (c *Counter) Increment(amount int) int {
	return c.state.Update(func(v int) int { return v + amount })
}

// IncrementText parses text with ParseAmount and increments by the result.
// On a parse error the value is left unchanged and returned with the error.
func (c *Counter) IncrementText(text string) (int, error) {
	amount, err := ParseAmount(text)
	if err != nil {
		return c.Value(), err
	}
	return c.Increment(amount), nil
}

// OnChange registers fn to run after every change.
func (c *Counter) OnChange(fn func(int)) (unsubscribe func()) {
	return c.state.OnChange(fn)
}
