package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "vault service token",
			input:    "s.8QkQ3tW1AnR2ZyZb0Yf7lB9c",
			expected: "s.8Q***",
		},
		{
			name:     "uuid style token",
			input:    "c5b1e4a8-0d6f-4b6e-9b1e-1f0a2c3d4e5f",
			expected: "c5b1***",
		},
		{
			name:     "exactly prefix length",
			input:    "abcd",
			expected: "****",
		},
		{
			name:     "short token fully hidden",
			input:    "ab",
			expected: "**",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskToken(tt.input))
		})
	}
}
