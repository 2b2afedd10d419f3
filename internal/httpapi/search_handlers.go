package httpapi

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/jsearch"
	"github.com/jobsift/jobsift/internal/pipeline"
	"github.com/jobsift/jobsift/internal/report"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type formData struct {
	Error string
}

type searchRequest struct {
	Description string `json:"description"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	DatePosted  string `json:"date_posted"`
	TopResults  int    `json:"top_results"`
}

type searchResponse struct {
	SearchID   string            `json:"search_id"`
	Query      string            `json:"query"`
	Keyphrases []string          `json:"keyphrases"`
	Found      int               `json:"found"`
	Returned   int               `json:"returned"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	Jobs       []jsearch.Posting `json:"jobs"`
}

type SearchHandler struct {
	Runner   Runner
	Logger   *zap.Logger
	Defaults pipeline.Request
}

func (h SearchHandler) Form(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.renderForm(w, http.StatusOK, "")
}

// SearchHTML runs a search from the submitted form and renders the
// results page. A blank description re-renders the form with an error
// instead of running a search.
func (h SearchHandler) SearchHTML(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	req := h.requestFromForm(r)
	if strings.TrimSpace(req.Description) == "" {
		h.renderForm(w, http.StatusOK, "Please enter a job description.")
		return
	}

	result, err := h.Runner.Run(r.Context(), req)
	if err != nil {
		h.Logger.Error("search failed", zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())))
		h.renderForm(w, http.StatusInternalServerError, "Search failed. Please try again.")
		return
	}

	page, err := result.Page(req)
	if err != nil {
		h.Logger.Error("building results page", zap.Error(err))
		h.renderForm(w, http.StatusInternalServerError, "Search failed. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w, page); err != nil {
		h.Logger.Error("rendering results page", zap.Error(err))
	}
}

func (h SearchHandler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_description", "description is required")
		return
	}

	req := h.Defaults
	req.Description = body.Description
	overrideString(&req.City, body.City)
	overrideString(&req.State, body.State)
	overrideString(&req.Country, body.Country)
	overrideString(&req.DatePosted, body.DatePosted)
	if body.TopResults > 0 {
		req.TopResults = body.TopResults
	}

	result, err := h.Runner.Run(r.Context(), &req)
	if err != nil {
		h.Logger.Error("search failed", zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())))
		WriteError(w, r, http.StatusInternalServerError, "search_failed", "search failed")
		return
	}

	WriteJSON(w, http.StatusOK, searchResponse{
		SearchID:   result.SearchID,
		Query:      result.Query,
		Keyphrases: result.Keyphrases,
		Found:      result.Found,
		Returned:   result.Returned,
		ElapsedMS:  result.Elapsed.Milliseconds(),
		Jobs:       result.Postings.Items,
	})
}

// SearchCSV runs a search from the submitted form and responds with the
// CSV report as a download.
func (h SearchHandler) SearchCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	req := h.requestFromForm(r)
	if strings.TrimSpace(req.Description) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_description", "description is required")
		return
	}

	result, err := h.Runner.Run(r.Context(), req)
	if err != nil {
		h.Logger.Error("search failed", zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())))
		WriteError(w, r, http.StatusInternalServerError, "search_failed", "search failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="job_results.csv"`)
	if err := report.WriteCSV(w, result.Postings); err != nil {
		h.Logger.Error("writing csv response", zap.Error(err))
	}
}

func (h SearchHandler) requestFromForm(r *http.Request) *pipeline.Request {
	req := h.Defaults
	req.Description = r.PostFormValue("description")
	overrideString(&req.City, r.PostFormValue("city"))
	overrideString(&req.State, r.PostFormValue("state"))
	overrideString(&req.Country, r.PostFormValue("country"))
	overrideString(&req.DatePosted, r.PostFormValue("date_posted"))

	return &req
}

func (h SearchHandler) renderForm(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, formData{Error: errMsg}); err != nil {
		h.Logger.Error("rendering search form", zap.Error(err))
	}
}

func overrideString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
