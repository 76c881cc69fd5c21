package hooks

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	testcases := []struct {
		desc     string
		given    string
		expected int
		err      error
	}{
		{"integer", "12", 12, nil},
		{"negative", "-3", -3, nil},
		{"plus sign", "+8", 8, nil},
		{"leading space", "  7", 7, nil},
		{"fraction truncates", "2.7", 2, nil},
		{"negative fraction", "-2.7", -2, nil},
		{"trailing text", "12px", 12, nil},
		{"exponent ignored", "1e3", 1, nil},
		{"empty", "", 0, ErrNotANumber},
		{"letters", "abc", 0, ErrNotANumber},
		{"sign only", "-", 0, ErrNotANumber},
		{"leading dot", ".5", 0, ErrNotANumber},
		{"overflow", "99999999999999999999999", 0, strconv.ErrRange},
	}

	for _, testcase := range testcases {
		t.Run(testcase.desc, func(t *testing.T) {
			got, err := ParseAmount(testcase.given)
			if testcase.err != nil {
				assert.ErrorIs(t, err, testcase.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testcase.expected, got)
		})
	}
}
