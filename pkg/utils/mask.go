package utils

import "strings"

const tokenVisiblePrefix = 4

// MaskToken hides all but the first few characters of a session token so it
// can appear in logs.
func MaskToken(token string) string {
	if len(token) <= tokenVisiblePrefix {
		return strings.Repeat("*", len(token))
	}
	return token[:tokenVisiblePrefix] + "***"
}
