package util

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"non-positive limit", "a long job description", 0, ""},
		{"within limit", "golang", 10, "golang"},
		{"cut with ellipsis", "experienced python developer", 11, "experienced..."},
		{"trimmed before measuring", "  golang  ", 6, "golang"},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tc.input, tc.limit); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
