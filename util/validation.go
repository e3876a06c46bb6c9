//nolint:revive
package util

import "fmt"

// FirstDuplicate returns the first value that appears twice in values.
func FirstDuplicate[T comparable](values []T) (T, bool) {
	seen := make(map[T]struct{}, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			return v, true
		}
		seen[v] = struct{}{}
	}

	var zero T

	return zero, false
}

// ValidateNoDuplicates returns an error naming the first duplicated value.
// A fragment must never be mapped to two transactions of the same batch.
func ValidateNoDuplicates[T comparable](what string, values []T) error {
	if dup, ok := FirstDuplicate(values); ok {
		return fmt.Errorf("duplicate %s detected: %v", what, dup)
	}

	return nil
}
