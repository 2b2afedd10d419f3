package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/jsearch"
)

type Ranker struct {
	encoder embedding.Encoder
	logger  *zap.Logger
}

func NewRanker(encoder embedding.Encoder, logger *zap.Logger) *Ranker {
	return &Ranker{
		encoder: encoder,
		logger:  logger,
	}
}

// Rank scores every posting against the reference description and returns
// a new list sorted by descending match score. The input postings are not
// modified. Scores are cosine similarity scaled to percent and rounded to
// two decimals; they are not clamped, so slightly negative values are
// possible for completely unrelated titles.
//
// titleField selects which posting field to compare. Empty means the
// posting title.
func (r *Ranker) Rank(ctx context.Context, description string, postings *jsearch.Postings, titleField string) (*jsearch.Postings, error) {
	if postings == nil || postings.Len() == 0 {
		return &jsearch.Postings{}, nil
	}
	if titleField == "" {
		titleField = jsearch.FieldTitle
	}

	refVectors, err := r.encoder.Encode(ctx, []string{description})
	if err != nil {
		return nil, fmt.Errorf("encoding reference description: %w", err)
	}
	if len(refVectors) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for the reference description", len(refVectors))
	}

	titles := postings.Titles(titleField)
	titleVectors, err := r.encoder.Encode(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("encoding %d posting titles: %w", len(titles), err)
	}
	if len(titleVectors) != len(titles) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d titles", len(titleVectors), len(titles))
	}

	ranked := postings.Clone()
	for i, item := range ranked.Items {
		score := embedding.Cosine(refVectors[0], titleVectors[i]) * 100
		item[jsearch.FieldMatchScore] = math.Round(score*100) / 100
	}

	sort.SliceStable(ranked.Items, func(i, j int) bool {
		return ranked.Items[i].Float64Field(jsearch.FieldMatchScore) > ranked.Items[j].Float64Field(jsearch.FieldMatchScore)
	})

	r.logger.Debug("postings ranked",
		zap.Int("count", ranked.Len()),
		zap.String("title_field", titleField),
	)

	return ranked, nil
}
