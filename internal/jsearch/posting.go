package jsearch

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Field names as they appear in JSearch responses. Ranking and report
// code addresses postings through these instead of bare literals.
const (
	FieldTitle       = "job_title"
	FieldEmployer    = "employer_name"
	FieldCity        = "job_city"
	FieldPublisher   = "job_publisher"
	FieldPostedAt    = "job_posted_at_datetime_utc"
	FieldApplyLink   = "job_apply_link"
	FieldDescription = "job_description"

	// Fields added locally, not present in API responses.
	FieldMatchScore = "match_score"
	FieldDatePosted = "date_posted"
	FieldSource     = "source"
)

// Posting is a single job posting kept in the provider's raw shape.
// The API returns dozens of loosely documented fields, so postings stay
// schemaless and typed access goes through the field helpers.
type Posting map[string]any

type Postings struct {
	Items []Posting
}

func (p Posting) StringField(name string) string {
	v, ok := p[name]
	if !ok || v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (p Posting) Float64Field(name string) float64 {
	switch typed := p[name].(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		f, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Clone copies the posting's top-level keys. Nested values are shared,
// which is enough for callers that only add or overwrite local fields.
func (p Posting) Clone() Posting {
	cloned := make(Posting, len(p))
	for k, v := range p {
		cloned[k] = v
	}
	return cloned
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) Titles(field string) []string {
	titles := make([]string, 0, len(p.Items))

	for _, item := range p.Items {
		titles = append(titles, item.StringField(field))
	}

	return titles
}

func (p *Postings) Top(n int) *Postings {
	if n < 0 || n > len(p.Items) {
		n = len(p.Items)
	}

	top := make([]Posting, n)
	copy(top, p.Items[:n])

	return &Postings{Items: top}
}

func (p *Postings) Clone() *Postings {
	items := make([]Posting, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, item.Clone())
	}
	return &Postings{Items: items}
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
