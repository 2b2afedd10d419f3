package keyphrase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jobsift/jobsift/internal/embedding"

	"go.uber.org/zap"
)

// EmbeddingScorer scores candidate phrases by cosine similarity between each
// phrase embedding and the whole-document embedding.
type EmbeddingScorer struct {
	encoder embedding.Encoder
	logger  *zap.Logger
}

func NewEmbeddingScorer(encoder embedding.Encoder, logger *zap.Logger) *EmbeddingScorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EmbeddingScorer{
		encoder: encoder,
		logger:  logger,
	}
}

// ScorePhrases returns up to topN candidate phrases of ngramMin..ngramMax
// tokens, best first. The document and all candidates are encoded in a single
// batch; a text with no candidates costs no encoder call.
func (s *EmbeddingScorer) ScorePhrases(ctx context.Context, text string, ngramMin, ngramMax, topN int) ([]ScoredPhrase, error) {
	if topN <= 0 {
		return nil, nil
	}

	candidates := candidatePhrases(text, ngramMin, ngramMax)
	if len(candidates) == 0 {
		return nil, nil
	}

	batch := append([]string{text}, candidates...)
	vectors, err := s.encoder.Encode(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d inputs", len(vectors), len(batch))
	}

	docVec := vectors[0]
	scored := make([]ScoredPhrase, len(candidates))
	for i, phrase := range candidates {
		scored[i] = ScoredPhrase{
			Phrase: phrase,
			Score:  embedding.Cosine(docVec, vectors[i+1]),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topN {
		scored = scored[:topN]
	}

	s.logger.Debug("scored candidate phrases",
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(scored)),
	)

	return scored, nil
}

// candidatePhrases tokenizes text, removes generic stopwords, and builds
// unique n-grams over the remaining adjacent tokens, in document order.
func candidatePhrases(text string, ngramMin, ngramMax int) []string {
	if ngramMin <= 0 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}

	tokens := tokenize(text)
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := stopwords[token]; ok {
			continue
		}
		filtered = append(filtered, token)
	}

	seen := make(map[string]struct{})
	phrases := make([]string, 0, len(filtered)*(ngramMax-ngramMin+1))
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(filtered); i++ {
			phrase := strings.Join(filtered[i:i+n], " ")
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			phrases = append(phrases, phrase)
		}
	}

	return phrases
}

// tokenize lower-cases text and splits it into word tokens of at least two
// characters.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens
}
