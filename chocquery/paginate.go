package chocquery

import (
	"fmt"
	"strconv"
)

// ParseLimit converts a digit string to a row cap.
//
// Conventions:
//   - the value must fit in an int
//   - 0 is accepted and yields an empty result
func ParseLimit(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("limit %q is not a representable integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("limit must be >= 0, got %d", v)
	}
	return v, nil
}

// LimitRows caps rows at limit. Rows are assumed to be ordered already;
// the cap is applied after ordering, never before.
func LimitRows(rows []Row, limit int) []Row {
	if limit < 0 {
		return rows
	}
	if limit < len(rows) {
		return rows[:limit]
	}
	return rows
}
