package utils

import (
	"strings"
)

const maxThreadNameLength = 100

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// ThreadName builds a Discord thread title from a user's display name,
// trimmed to the platform's 100 character channel name limit. The limit is
// in characters, so truncation happens on runes to never split a multi-byte
// name into invalid UTF-8.
func ThreadName(displayName, userID string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = userID
	}
	if runes := []rune(name); len(runes) > maxThreadNameLength {
		name = string(runes[:maxThreadNameLength])
	}
	return name
}
