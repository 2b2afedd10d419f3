// Package report renders ranked postings for people: terse rows for the
// terminal, CSV for spreadsheets and an HTML page for the browser.
package report

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jobsift/jobsift/internal/jsearch"
)

const (
	sourceAPI    = "API"
	missingValue = "N/A"

	snippetLength = 240
)

// Row is the presentation shape of a single posting.
type Row struct {
	Title      string  `json:"job_title"`
	Company    string  `json:"employer_name"`
	Location   string  `json:"job_city"`
	Publisher  string  `json:"job_publisher"`
	MatchScore float64 `json:"match_score"`
	DatePosted string  `json:"date_posted"`
	PostedAt   string  `json:"job_posted_at_datetime_utc"`
	Link       string  `json:"job_apply_link"`
	Source     string  `json:"source"`
	Snippet    string  `json:"-"`
}

// Decorate returns a copy of the postings carrying presentation fields:
// the originating source and a human-readable posted date. The raw
// provider timestamp stays untouched for the CSV export.
func Decorate(postings *jsearch.Postings) *jsearch.Postings {
	if postings == nil {
		return &jsearch.Postings{}
	}

	decorated := postings.Clone()
	for _, item := range decorated.Items {
		item[jsearch.FieldSource] = sourceAPI

		postedAt := item.StringField(jsearch.FieldPostedAt)
		if postedAt == "" {
			item[jsearch.FieldDatePosted] = missingValue
			continue
		}
		item[jsearch.FieldDatePosted] = NormalizeDate(postedAt)
	}

	return decorated
}

// Summaries returns a compact per-posting view for terminal output.
func Summaries(postings *jsearch.Postings) []map[string]string {
	if postings == nil {
		return nil
	}

	items := make([]map[string]string, 0, postings.Len())
	for _, item := range postings.Items {
		items = append(items, map[string]string{
			"title":       item.StringField(jsearch.FieldTitle),
			"company":     item.StringField(jsearch.FieldEmployer),
			"location":    item.StringField(jsearch.FieldCity),
			"source":      item.StringField(jsearch.FieldPublisher),
			"match score": fmt.Sprintf("%.2f", item.Float64Field(jsearch.FieldMatchScore)),
			"posted":      item.StringField(jsearch.FieldDatePosted),
			"link":        item.StringField(jsearch.FieldApplyLink),
		})
	}

	return items
}

// Rows decodes raw postings into presentation rows. Description markup
// is reduced to a plain-text snippet.
func Rows(postings *jsearch.Postings) ([]Row, error) {
	if postings == nil {
		return nil, nil
	}

	rows := make([]Row, 0, postings.Len())
	for i, item := range postings.Items {
		var row Row

		cfg := &mapstructure.DecoderConfig{
			Metadata: nil,
			Result:   &row,
			TagName:  "json",
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(map[string]any(item)); err != nil {
			return nil, fmt.Errorf("decoding posting %d: %w", i, err)
		}

		row.Snippet = Snippet(item, snippetLength)
		rows = append(rows, row)
	}

	return rows, nil
}
