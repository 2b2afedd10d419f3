package report

import (
	_ "embed"
	"html/template"
	"io"
	"os"
	"time"
)

//go:embed templates/report.html
var reportHTML string

var reportTmpl = template.Must(template.New("report").Parse(reportHTML))

// Page carries everything the HTML report shows: the search inputs that
// produced it and the ranked rows.
type Page struct {
	Description string
	City        string
	State       string
	Country     string
	DatePosted  string
	Query       string
	SearchID    string
	GeneratedAt time.Time
	Rows        []Row
}

func RenderHTML(w io.Writer, page *Page) error {
	return reportTmpl.Execute(w, page)
}

// SaveHTML writes the report page to path, truncating any previous file.
func SaveHTML(path string, page *Page) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return RenderHTML(file, page)
}
