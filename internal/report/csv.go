package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/jobsift/jobsift/internal/jsearch"
)

var csvHeader = []string{"Title", "Company", "Location", "Source", "Match Score", "Date Posted", "Link"}

// WriteCSV renders postings as a spreadsheet-friendly table. Columns
// come straight from the provider fields; the Date Posted column carries
// the raw provider timestamp, or N/A when the posting has none. Match
// scores render with two decimals, like the HTML report, and stay empty
// for postings that were never ranked.
func WriteCSV(w io.Writer, postings *jsearch.Postings) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	if postings != nil {
		for _, item := range postings.Items {
			postedAt := item.StringField(jsearch.FieldPostedAt)
			if postedAt == "" {
				postedAt = missingValue
			}

			score := ""
			if _, ok := item[jsearch.FieldMatchScore]; ok {
				score = strconv.FormatFloat(item.Float64Field(jsearch.FieldMatchScore), 'f', 2, 64)
			}

			record := []string{
				item.StringField(jsearch.FieldTitle),
				item.StringField(jsearch.FieldEmployer),
				item.StringField(jsearch.FieldCity),
				item.StringField(jsearch.FieldPublisher),
				score,
				postedAt,
				item.StringField(jsearch.FieldApplyLink),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

// SaveCSV writes the report to path, truncating any previous file.
func SaveCSV(path string, postings *jsearch.Postings) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, postings)
}
