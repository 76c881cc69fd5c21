package hooks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestReduceCounter(t *testing.T) {
	testcases := []struct {
		desc     string
		state    CounterState
		action   Action
		expected CounterState
	}{
		{"increment", CounterState{Count: 0}, Increment, CounterState{Count: 1}},
		{"decrement", CounterState{Count: 0}, Decrement, CounterState{Count: -1}},
		{"decrement below zero", CounterState{Count: -9}, Decrement, CounterState{Count: -10}},
		{"unknown action", CounterState{Count: 4}, Action{Type: "RESET"}, CounterState{Count: 4}},
		{"empty action", CounterState{Count: 4}, Action{}, CounterState{Count: 4}},
		{"case sensitive", CounterState{Count: 4}, Action{Type: "increment"}, CounterState{Count: 4}},
	}

	for _, testcase := range testcases {
		t.Run(testcase.desc, func(t *testing.T) {
			got := ReduceCounter(testcase.state, testcase.action)
			if diff := cmp.Diff(testcase.expected, got); diff != "" {
				t.Errorf("ReduceCounter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceCounter_RoundTrip(t *testing.T) {
	for _, n := range []int{-1000, -1, 0, 1, 42, 1 << 30} {
		s := CounterState{Count: n}
		assert.Equal(t, s, ReduceCounter(ReduceCounter(s, Increment), Decrement))
		assert.Equal(t, s, ReduceCounter(ReduceCounter(s, Decrement), Increment))
		assert.Equal(t, s, ReduceCounter(s, Action{Type: "NOPE"}))
	}
}

func TestReducerStore_Dispatch(t *testing.T) {
	r := NewReducerStore(ReduceCounter, CounterState{})
	var seen []int
	r.Subscribe(func(s CounterState) { seen = append(seen, s.Count) })

	r.Dispatch(Increment)
	r.Dispatch(Increment)
	r.Dispatch(Decrement)
	r.Dispatch(Action{Type: "UNKNOWN"})

	assert.Equal(t, 1, r.State().Count)
	assert.Equal(t, []int{1, 2, 1, 1}, seen)
}

func TestNewReducerStore_NilReducerPanics(t *testing.T) {
	assert.Panics(t, func() { NewReducerStore[CounterState, Action](nil, CounterState{}) })
}
