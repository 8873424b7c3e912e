package cli

import (
	"fmt"
	"strconv"
)

// parsePosition parses a 1-based item position as shown by `till item list`.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid item position '%s'. Use the number shown by `till item list`", arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid item position %d. Positions start at 1", n)
	}
	return n, nil
}

// optionalString returns the flag value when the flag was set, so unset
// flags leave fields unchanged.
func optionalString(changed bool, value string) *string {
	if !changed {
		return nil
	}
	return &value
}
