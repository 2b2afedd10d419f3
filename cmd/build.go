package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/embedding/gemini"
	"github.com/jobsift/jobsift/internal/jsearch"
	"github.com/jobsift/jobsift/internal/keyphrase"
	"github.com/jobsift/jobsift/internal/logger"
	"github.com/jobsift/jobsift/internal/pipeline"
	"github.com/jobsift/jobsift/internal/ranking"
	"github.com/jobsift/jobsift/internal/secrets"
	"github.com/jobsift/jobsift/internal/store"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// application bundles the assembled search pipeline with the resources
// it owns.
type application struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
}

func (a *application) Close() {
	if a == nil || a.store == nil {
		return
	}

	a.store.Close()
}

// buildApp assembles the full pipeline from the config: the JSearch
// client, the embedding encoder (optionally cached), the keyphrase
// extractor and the ranker.
func buildApp(ctx context.Context, config *Config, base *zap.Logger) (*application, error) {
	key, err := resolveProviderKey(config)
	if err != nil {
		return nil, fmt.Errorf("%w (set provider.api-key-file, RAPIDAPI_KEY or RAPIDAPI_KEY_FILE)", err)
	}

	js := jsearch.New(ctx, base, key)

	if config.Provider != nil && config.Provider.BaseURL != "" {
		js.APIURL = config.Provider.BaseURL
	}

	encoder, err := newEncoder(ctx, config, base)
	if err != nil {
		return nil, err
	}

	a := &application{}

	var enc embedding.Encoder = encoder
	if config.cacheEnabled() {
		path := config.cachePath()

		cache, err := store.Open(path, base)
		if err != nil {
			return nil, fmt.Errorf("opening embedding cache %q: %w", path, err)
		}

		a.store = cache
		enc = embedding.NewCachedEncoder(encoder, cache, base)
	}

	scorer := keyphrase.NewEmbeddingScorer(enc, base)
	extractor := keyphrase.NewExtractor(scorer, config.noiseWords(), base)
	ranker := ranking.NewRanker(enc, base)

	a.pipeline = pipeline.New(extractor, js, ranker, base)

	return a, nil
}

func resolveProviderKey(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	var apiKey, apiKeyFile string
	if config.Provider != nil {
		apiKey = config.Provider.APIKey
		apiKeyFile = strings.TrimSpace(config.Provider.APIKeyFile)
	}

	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("provider.api-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "rapidapi key",
		Value: apiKey,
		Env:   "RAPIDAPI_KEY",
		File:  apiKeyFile,
	})
}

func resolveGeminiKey(cfg *GeminiConfig) (string, error) {
	apiKeyFile := strings.TrimSpace(cfg.APIKeyFile)
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("embedding.gemini.api-key-file"))
	}

	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  apiKeyFile,
	})
}

func newEncoder(ctx context.Context, config *Config, base *zap.Logger) (*gemini.Encoder, error) {
	cfg := config.embedding()

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	gcfg := cfg.gemini()

	apiKey, err := resolveGeminiKey(gcfg)
	if err != nil {
		return nil, fmt.Errorf("%w (set embedding.gemini.api-key-file, GEMINI_API_KEY or GEMINI_API_KEY_FILE)", err)
	}

	encLogger := logger.WithCommonFields(base, "gemini", gcfg.Model)

	encoder, err := gemini.NewEncoder(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, encLogger)
	if err != nil {
		return nil, err
	}

	return encoder, nil
}
