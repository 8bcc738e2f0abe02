package errors

import (
	"strconv"
	"unicode"
)

// maxNodeIDLength bounds node identifiers read from untrusted input.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier read from a graph file.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ParseLevelKey parses a serialized nesting level key ("0", "1", ...).
// Levels are base-10 integers and never negative.
func ParseLevelKey(key string) (int, error) {
	level, err := strconv.Atoi(key)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "invalid level key %q: not an integer", key)
	}
	if level < 0 {
		return 0, New(ErrCodeInvalidInput, "invalid level key %q: must not be negative", key)
	}
	return level, nil
}

// ParseTimeKey parses a serialized time-step key.
// Time steps are base-10 integers; negative values are allowed.
func ParseTimeKey(key string) (int, error) {
	t, err := strconv.Atoi(key)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "invalid time step key %q: not an integer", key)
	}
	return t, nil
}
