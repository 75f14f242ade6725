// Package strings provides small string-slice helpers.
package strings

import (
	"strings"
)

// DedupeAndTrim trims whitespace from each element, drops empties, and
// removes duplicates. First-seen order is preserved, so configuration
// lists keep the priority their author wrote them in.
//
// Example:
//
//	DedupeAndTrim([]string{" broker-1:9092", "broker-2:9092", "broker-1:9092", ""})
//	// Returns: []string{"broker-1:9092", "broker-2:9092"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}

	return result
}
