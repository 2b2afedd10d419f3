package keyphrase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/util"
)

const (
	// Candidates are over-fetched to compensate for phrases the noise
	// filter discards.
	overfetchFactor = 4

	ngramMin = 1
	ngramMax = 2

	maxLoggedTextLength = 120
)

// ScoredPhrase is a candidate phrase with its relevance score.
type ScoredPhrase struct {
	Phrase string
	Score  float64
}

// Scorer ranks candidate phrases of ngramMin..ngramMax tokens from text, best
// first, with generic English stopwords already removed.
type Scorer interface {
	ScorePhrases(ctx context.Context, text string, ngramMin, ngramMax, topN int) ([]ScoredPhrase, error)
}

// Extractor selects search keyphrases from free text: candidates come from
// the scorer, then the domain noise filter, dedup, and the topN cap apply.
type Extractor struct {
	scorer Scorer
	noise  map[string]struct{}
	logger *zap.Logger
}

// NewExtractor builds an Extractor over the given scorer. Words in extraNoise
// extend the built-in noise set.
func NewExtractor(scorer Scorer, extraNoise []string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	noise := make(map[string]struct{}, len(defaultNoiseWords)+len(extraNoise))
	for _, word := range defaultNoiseWords {
		noise[word] = struct{}{}
	}
	for _, word := range extraNoise {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			noise[word] = struct{}{}
		}
	}

	return &Extractor{
		scorer: scorer,
		noise:  noise,
		logger: logger,
	}
}

// Extract returns up to topN unique keyphrases for text, best first. Empty
// text yields an empty result without a scorer call. Candidates containing a
// noise token are dropped whole, duplicates keep their first (highest-score)
// occurrence.
func (e *Extractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if topN <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	candidates, err := e.scorer.ScorePhrases(ctx, text, ngramMin, ngramMax, topN*overfetchFactor)
	if err != nil {
		return nil, fmt.Errorf("scoring candidate phrases: %w", err)
	}

	kept := make([]string, 0, topN)
	seen := make(map[string]struct{}, len(candidates))
	droppedNoise, droppedDup := 0, 0

	for _, candidate := range candidates {
		phrase := strings.ToLower(strings.TrimSpace(candidate.Phrase))
		if phrase == "" {
			continue
		}
		if e.containsNoise(phrase) {
			droppedNoise++
			continue
		}
		if _, ok := seen[phrase]; ok {
			droppedDup++
			continue
		}
		seen[phrase] = struct{}{}
		kept = append(kept, phrase)
		if len(kept) == topN {
			break
		}
	}

	e.logger.Debug("extracted keyphrases",
		zap.String("text", util.TruncateForLog(text, maxLoggedTextLength)),
		zap.Int("candidates", len(candidates)),
		zap.Int("dropped_noise", droppedNoise),
		zap.Int("dropped_duplicates", droppedDup),
		zap.Int("kept", len(kept)),
	)

	return kept, nil
}

func (e *Extractor) containsNoise(phrase string) bool {
	for _, token := range strings.Fields(phrase) {
		if _, ok := e.noise[token]; ok {
			return true
		}
	}
	return false
}
