package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-embedding-001"
	defaultMaxRetries = 2

	// semanticSimilarity optimizes returned vectors for cosine comparison.
	semanticSimilarity = "SEMANTIC_SIMILARITY"

	// maxBatchSize is the embedContent ceiling on inputs per request.
	maxBatchSize = 100

	maxConcurrentBatches = 4

	retryBaseDelay = 2 * time.Second
	maxQuotaDelay  = 30 * time.Second
)

var retryAfterRe = regexp.MustCompile(`retry after (\d+)`)

// contentEmbedder is the slice of the genai SDK the encoder depends on.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Encoder produces embeddings via the Gemini API.
type Encoder struct {
	embedder   contentEmbedder
	model      string
	maxRetries int
	logger     *zap.Logger
	wait       func(ctx context.Context, d time.Duration) error
}

// NewEncoder creates an Encoder configured for the Gemini API backend.
func NewEncoder(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Encoder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Encoder{
		embedder:   client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
		wait:       util.WaitFor,
	}, nil
}

func (e *Encoder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

// Encode embeds all texts in input order. The API rejects empty content, so
// blank inputs embed to the zero vector without a provider call.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	if e == nil || e.embedder == nil {
		return nil, errors.New("gemini encoder is not initialized")
	}

	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]embedding.Vector, len(texts))

	indexes := make([]int, 0, len(texts))
	payload := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		indexes = append(indexes, i)
		payload = append(payload, text)
	}

	if len(payload) > 0 {
		vectors, err := e.embedAll(ctx, payload)
		if err != nil {
			return nil, err
		}
		for j, i := range indexes {
			out[i] = vectors[j]
		}
	}

	dims := 0
	for _, vec := range out {
		if len(vec) > 0 {
			dims = len(vec)
			break
		}
	}
	for i, vec := range out {
		if vec == nil {
			out[i] = make(embedding.Vector, dims)
		}
	}

	return out, nil
}

func (e *Encoder) embedAll(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	batches := splitBatches(texts, maxBatchSize)
	results := make([][]embedding.Vector, len(batches))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentBatches)

	for i, batch := range batches {
		group.Go(func() error {
			vectors, err := e.embedBatch(ctx, batch)
			if err != nil {
				return err
			}
			results[i] = vectors
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := make([]embedding.Vector, 0, len(texts))
	for _, vectors := range results {
		out = append(out, vectors...)
	}

	return out, nil
}

func (e *Encoder) embedBatch(ctx context.Context, texts []string) ([]embedding.Vector, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	cfg := &genai.EmbedContentConfig{TaskType: semanticSimilarity}

	e.logger.Debug("gemini embed content request", zap.Int("inputs", len(texts)))

	var resp *genai.EmbedContentResponse
	for attempt := 0; ; attempt++ {
		var err error
		resp, err = e.embedder.EmbedContent(ctx, e.model, contents, cfg)
		if err == nil {
			break
		}

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt+1 >= e.maxRetries {
			return nil, fmt.Errorf("embed content: %w", err)
		}

		e.logger.Warn("retrying embed content request",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if waitErr := e.wait(ctx, delay); waitErr != nil {
			return nil, waitErr
		}
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([]embedding.Vector, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
		vectors[i] = embedding.Vector(emb.Values)
	}

	return vectors, nil
}

// retryDelay classifies err and returns how long to wait before the next
// attempt. Server errors back off linearly; quota errors honor the delay the
// API asks for unless it exceeds maxQuotaDelay.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code >= http.StatusInternalServerError:
		return retryBaseDelay * time.Duration(attempt+1), true
	case apiErr.Code == http.StatusTooManyRequests:
		delay := quotaDelay(apiErr.Message)
		if delay <= 0 {
			delay = retryBaseDelay * time.Duration(attempt+1)
		}
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	default:
		return 0, false
	}
}

func quotaDelay(message string) time.Duration {
	match := retryAfterRe.FindStringSubmatch(strings.ToLower(message))
	if len(match) != 2 {
		return 0
	}

	seconds, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

func splitBatches(texts []string, size int) [][]string {
	if size <= 0 {
		size = maxBatchSize
	}

	batches := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[start:end])
	}

	return batches
}
