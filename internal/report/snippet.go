package report

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobsift/jobsift/internal/jsearch"
)

// PlainText strips HTML markup from provider text and collapses runs of
// whitespace. Text without markup passes through with only the
// whitespace normalized.
func PlainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Snippet returns a plain-text excerpt of the posting description,
// truncated to limit runes. A non-positive limit disables truncation.
func Snippet(p jsearch.Posting, limit int) string {
	text := PlainText(p.StringField(jsearch.FieldDescription))
	if limit <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return strings.TrimSpace(string(runes[:limit])) + "..."
}
