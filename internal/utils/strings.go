package utils

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// TruncateString shortens s to at most maxLen runes, appending a suffix that
// records the original length so readers know text was omitted. If maxLen is
// zero or negative, [DefaultMaxStringLength] is used instead. The cut never
// splits a multi-byte rune.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}

	cut, seen := 0, 0
	for i := range s {
		if seen == maxLen {
			cut = i
			break
		}
		seen++
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], total)
}

// TruncateStringDefault truncates a string using DefaultMaxStringLength
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}
