package common

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParseOptionalInt returns nil for empty or non-numeric input.
func ParseOptionalInt(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// ParseOptionalBool only recognises the literals "true" and "false".
func ParseOptionalBool(value string) *bool {
	var b bool
	switch strings.TrimSpace(value) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil
	}
	return &b
}
