package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
)

// VectorStore persists embedding vectors keyed by CacheKey. Implementations
// must tolerate keys that were never stored.
type VectorStore interface {
	Get(ctx context.Context, keys []string) (map[string]Vector, error)
	Put(ctx context.Context, key, model string, vec Vector) error
}

// CachedEncoder wraps an Encoder with a VectorStore so repeated encodings of
// the same text skip the provider call. Store failures degrade to a plain
// encode and never fail the request.
type CachedEncoder struct {
	inner  Encoder
	store  VectorStore
	logger *zap.Logger
}

func NewCachedEncoder(inner Encoder, store VectorStore, logger *zap.Logger) *CachedEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedEncoder{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

// CacheKey derives the store key for a text embedded with the given model.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *CachedEncoder) Model() string {
	return c.inner.Model()
}

func (c *CachedEncoder) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := c.inner.Model()
	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = CacheKey(model, text)
	}

	cached, err := c.store.Get(ctx, keys)
	if err != nil {
		c.logger.Warn("reading embedding cache", zap.Error(err))
		cached = nil
	}
	if cached == nil {
		cached = make(map[string]Vector)
	}

	missingIdx := make([]int, 0, len(texts))
	missingTexts := make([]string, 0, len(texts))
	for i, key := range keys {
		if _, ok := cached[key]; !ok {
			missingIdx = append(missingIdx, i)
			missingTexts = append(missingTexts, texts[i])
		}
	}

	c.logger.Debug("embedding cache lookup",
		zap.Int("requested", len(texts)),
		zap.Int("misses", len(missingTexts)),
	)

	if len(missingTexts) > 0 {
		vecs, err := c.inner.Encode(ctx, missingTexts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(missingTexts) {
			return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(vecs), len(missingTexts))
		}

		for j, i := range missingIdx {
			key := keys[i]
			cached[key] = vecs[j]
			if putErr := c.store.Put(ctx, key, model, vecs[j]); putErr != nil {
				c.logger.Warn("writing embedding cache", zap.Error(putErr))
			}
		}
	}

	result := make([]Vector, len(texts))
	for i, key := range keys {
		result[i] = cached[key]
	}

	return result, nil
}
