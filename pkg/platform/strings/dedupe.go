// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// Dedupe removes exact duplicates and empty strings from a slice.
// Order of first appearance is preserved and the result is never nil.
//
// Example:
//
//	Dedupe([]string{"a@x.com", "", "b@x.com", "a@x.com"})
//	// Returns: []string{"a@x.com", "b@x.com"}
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}

// TrimPtr trims an optional value, collapsing blank input to nil.
func TrimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
