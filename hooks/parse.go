package hooks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrNotANumber is returned when text has no leading integer.
var ErrNotANumber = errors.New("not a number")

// ParseAmount reads the leading integer of text. Leading whitespace and a
// single sign are accepted, anything after the digits is ignored, so
// "2.7" is 2 and "12px" is 12.
func ParseAmount(text string) (int, error) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("parse amount %q: %w", text, ErrNotANumber)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", text, err)
	}
	return n, nil
}
