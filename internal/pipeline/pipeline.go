// Package pipeline wires keyphrase extraction, posting fetch, semantic
// ranking and decoration into a single search flow.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/jsearch"
	"github.com/jobsift/jobsift/internal/ranking"
	"github.com/jobsift/jobsift/internal/report"
)

const (
	DefaultTopKeywords = 5
	DefaultTopResults  = 10
)

type KeyphraseExtractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

type PostingFetcher interface {
	Search(params *jsearch.SearchParams) *jsearch.Postings
}

type PostingRanker interface {
	Rank(ctx context.Context, description string, postings *jsearch.Postings, titleField string) (*jsearch.Postings, error)
}

// Request describes one search. Zero values fall back to the package
// defaults; an empty description is allowed and yields a location-only
// query. The mapstructure tags let a config file section decode
// directly into a Request.
type Request struct {
	Description string `mapstructure:"description"`
	City        string `mapstructure:"city"`
	State       string `mapstructure:"state"`
	Country     string `mapstructure:"country"`
	DatePosted  string `mapstructure:"date-posted"`
	TopKeywords int    `mapstructure:"top-keywords"`
	TopResults  int    `mapstructure:"top-results"`
	TitleField  string `mapstructure:"title-field"`
}

type Result struct {
	SearchID   string
	Query      string
	Keyphrases []string
	Postings   *jsearch.Postings
	Found      int
	Returned   int
	Elapsed    time.Duration
}

type Pipeline struct {
	extractor KeyphraseExtractor
	fetcher   PostingFetcher
	ranker    PostingRanker
	logger    *zap.Logger
}

func New(extractor KeyphraseExtractor, fetcher PostingFetcher, ranker PostingRanker, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		fetcher:   fetcher,
		ranker:    ranker,
		logger:    logger,
	}
}

// Run executes one search end to end and returns the decorated top
// postings. Fetch failures are not errors: they surface as an empty
// result, the same as a query with no hits.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	searchID := uuid.NewString()

	log := p.logger.With(zap.String("search_id", searchID))

	topKeywords := req.TopKeywords
	if topKeywords <= 0 {
		topKeywords = DefaultTopKeywords
	}
	topResults := req.TopResults
	if topResults <= 0 {
		topResults = DefaultTopResults
	}

	keyphrases, err := p.extractor.Extract(ctx, req.Description, topKeywords)
	if err != nil {
		return nil, fmt.Errorf("extracting keyphrases: %w", err)
	}

	query := ranking.BuildQuery(keyphrases, req.City)
	log.Info("query built",
		zap.Strings("keyphrases", keyphrases),
		zap.String("query", query),
	)

	postings := p.fetcher.Search(&jsearch.SearchParams{
		Query:      query,
		DatePosted: req.DatePosted,
		Country:    req.Country,
	})
	found := postings.Len()
	log.Info("postings fetched", zap.Int("count", found))

	ranked, err := p.ranker.Rank(ctx, req.Description, postings, req.TitleField)
	if err != nil {
		return nil, fmt.Errorf("ranking postings: %w", err)
	}

	top := report.Decorate(ranked.Top(topResults))

	result := &Result{
		SearchID:   searchID,
		Query:      query,
		Keyphrases: keyphrases,
		Postings:   top,
		Found:      found,
		Returned:   top.Len(),
		Elapsed:    time.Since(started),
	}

	log.Info("search completed",
		zap.Int("found", result.Found),
		zap.Int("returned", result.Returned),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// Page assembles the HTML report data for this result, echoing the
// request that produced it.
func (r *Result) Page(req *Request) (*report.Page, error) {
	rows, err := report.Rows(r.Postings)
	if err != nil {
		return nil, err
	}

	return &report.Page{
		Description: req.Description,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		DatePosted:  req.DatePosted,
		Query:       r.Query,
		SearchID:    r.SearchID,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}, nil
}
