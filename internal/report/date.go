package report

import (
	"strings"
	"time"
)

const displayDateLayout = "02 Jan 2006"

// Provider timestamps are ISO-8601 with varying precision, with or
// without a zone. The trailing Z is stripped before parsing; fractional
// seconds are accepted by time.Parse without a layout of their own.
var isoLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate renders an ISO-8601 timestamp as "02 Jan 2006". Values
// that do not parse are returned unchanged so no provider data is lost.
func NormalizeDate(value string) string {
	candidate := strings.ReplaceAll(value, "Z", "")

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format(displayDateLayout)
		}
	}

	return value
}
