package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("VAULT_HOST", "vault.internal")
	assert.Equal(t, "vault.internal", GetEnv("VAULT_HOST", "fallback"))

	t.Setenv("VAULT_HOST", "")
	assert.Equal(t, "fallback", GetEnv("VAULT_HOST", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "valid", value: "8201", expected: 8201},
		{name: "invalid falls back", value: "eighty", expected: 8200},
		{name: "empty falls back", value: "", expected: 8200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VAULT_PORT", tt.value)
			assert.Equal(t, tt.expected, GetEnvInt("VAULT_PORT", 8200))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true", value: "true", def: false, expected: true},
		{name: "numeric one", value: "1", def: false, expected: true},
		{name: "false", value: "false", def: true, expected: false},
		{name: "garbage falls back", value: "yes please", def: false, expected: false},
		{name: "empty falls back", value: "", def: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VAULT_SKIP_VERIFY", tt.value)
			assert.Equal(t, tt.expected, GetEnvBool("VAULT_SKIP_VERIFY", tt.def))
		})
	}
}
