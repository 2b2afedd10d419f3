package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateForLog caps s at limit runes for log output, marking cut
// values with a trailing ellipsis. A non-positive limit yields "".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit]) + "..."
}
