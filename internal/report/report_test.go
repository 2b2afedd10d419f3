package report

import (
	"strings"
	"testing"

	"github.com/jobsift/jobsift/internal/jsearch"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"utc timestamp", "2025-08-27T00:00:00Z", "27 Aug 2025"},
		{"fractional seconds", "2025-08-27T10:30:00.123456Z", "27 Aug 2025"},
		{"offset timestamp", "2025-08-27T10:30:00+05:30", "27 Aug 2025"},
		{"space separator", "2025-01-05 08:00:00", "05 Jan 2025"},
		{"date only", "2025-08-27", "27 Aug 2025"},
		{"unparseable", "yesterday", "yesterday"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeDate(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDecorate(t *testing.T) {
	t.Parallel()

	postings := &jsearch.Postings{Items: []jsearch.Posting{
		{
			jsearch.FieldTitle:    "Go Developer",
			jsearch.FieldPostedAt: "2025-08-27T00:00:00Z",
		},
		{
			jsearch.FieldTitle: "Data Engineer",
		},
	}}

	decorated := Decorate(postings)

	first := decorated.Items[0]
	if got := first.StringField(jsearch.FieldSource); got != "API" {
		t.Fatalf("expected source %q, got %q", "API", got)
	}
	if got := first.StringField(jsearch.FieldDatePosted); got != "27 Aug 2025" {
		t.Fatalf("expected date posted %q, got %q", "27 Aug 2025", got)
	}
	if got := first.StringField(jsearch.FieldPostedAt); got != "2025-08-27T00:00:00Z" {
		t.Fatalf("raw posted-at changed: %q", got)
	}

	second := decorated.Items[1]
	if got := second.StringField(jsearch.FieldDatePosted); got != "N/A" {
		t.Fatalf("expected date posted %q, got %q", "N/A", got)
	}

	for i, item := range postings.Items {
		if _, ok := item[jsearch.FieldSource]; ok {
			t.Fatalf("input posting %d gained a source field", i)
		}
	}
}

func TestDecorateNil(t *testing.T) {
	t.Parallel()

	decorated := Decorate(nil)
	if decorated == nil || decorated.Len() != 0 {
		t.Fatalf("expected empty postings, got %+v", decorated)
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	postings := &jsearch.Postings{Items: []jsearch.Posting{
		{
			jsearch.FieldTitle:       "Go Developer",
			jsearch.FieldEmployer:    "Acme",
			jsearch.FieldCity:        "Bangalore",
			jsearch.FieldPublisher:   "LinkedIn",
			jsearch.FieldMatchScore:  92.41,
			jsearch.FieldPostedAt:    "2025-08-27T00:00:00Z",
			jsearch.FieldDatePosted:  "27 Aug 2025",
			jsearch.FieldApplyLink:   "https://example.com/job/1",
			jsearch.FieldSource:      "API",
			jsearch.FieldDescription: "<p>Build <b>Go</b> services.</p>",
		},
		{},
	}}

	rows, err := Rows(postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	row := rows[0]
	if row.Title != "Go Developer" || row.Company != "Acme" || row.Location != "Bangalore" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.MatchScore != 92.41 {
		t.Fatalf("expected match score 92.41, got %v", row.MatchScore)
	}
	if row.PostedAt != "2025-08-27T00:00:00Z" || row.DatePosted != "27 Aug 2025" {
		t.Fatalf("unexpected dates: %+v", row)
	}
	if row.Snippet != "Build Go services." {
		t.Fatalf("expected markup stripped from snippet, got %q", row.Snippet)
	}

	empty := rows[1]
	if empty.Title != "" || empty.MatchScore != 0 || empty.Snippet != "" {
		t.Fatalf("expected zero row for empty posting, got %+v", empty)
	}
}

func TestRowsDecodeError(t *testing.T) {
	t.Parallel()

	postings := &jsearch.Postings{Items: []jsearch.Posting{
		{jsearch.FieldMatchScore: true},
	}}

	if _, err := Rows(postings); err == nil {
		t.Fatalf("expected decode error for non-numeric match score")
	}
}

func TestRowsNil(t *testing.T) {
	t.Parallel()

	rows, err := Rows(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows, got %+v", rows)
	}
}

func TestSummaries(t *testing.T) {
	t.Parallel()

	postings := &jsearch.Postings{Items: []jsearch.Posting{
		{
			jsearch.FieldTitle:      "Go Developer",
			jsearch.FieldEmployer:   "Acme",
			jsearch.FieldMatchScore: 92.418,
			jsearch.FieldDatePosted: "27 Aug 2025",
		},
	}}

	summaries := Summaries(postings)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	if summary["title"] != "Go Developer" {
		t.Fatalf("unexpected title: %q", summary["title"])
	}
	if summary["match score"] != "92.42" {
		t.Fatalf("expected match score %q, got %q", "92.42", summary["match score"])
	}
	if summary["posted"] != "27 Aug 2025" {
		t.Fatalf("unexpected posted: %q", summary["posted"])
	}
	if summary["company"] != "Acme" {
		t.Fatalf("unexpected company: %q", summary["company"])
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"markup", "<p>Build <b>Go</b> services.</p>", "Build Go services."},
		{"plain", "already plain text", "already plain text"},
		{"whitespace runs", "too   many\n\nspaces", "too many spaces"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PlainText(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSnippetTruncates(t *testing.T) {
	t.Parallel()

	posting := jsearch.Posting{
		jsearch.FieldDescription: strings.Repeat("golang services ", 40),
	}

	snippet := Snippet(posting, 50)
	if len([]rune(snippet)) > 53 {
		t.Fatalf("snippet too long: %d runes", len([]rune(snippet)))
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", snippet)
	}

	full := Snippet(posting, 0)
	if strings.HasSuffix(full, "...") {
		t.Fatalf("expected no ellipsis without a limit, got %q", full)
	}
}
