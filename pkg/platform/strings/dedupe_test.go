package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"broker-1:9092"},
			expected: []string{"broker-1:9092"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  broker-1:9092  ", "broker-2:9092 "},
			expected: []string{"broker-1:9092", "broker-2:9092"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"b", "a", "b", "c", "a"},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"a", "", "  ", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "combined trim, dedupe, and drop",
			input:    []string{"  a ", "b", "a", "", "  ", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
