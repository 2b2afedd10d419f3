package jsearch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL  = "https://jsearch.p.rapidapi.com"
	apiHost = "jsearch.p.rapidapi.com"

	// Free-tier friendly defaults. Override via the Limiter field.
	defaultRequestsPerSecond = 1
	defaultBurst             = 1
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	key        string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	Host       string
	Limiter    *rate.Limiter
}

func New(ctx context.Context, logger *zap.Logger, key string) *Client {
	return &Client{
		ctx:    ctx,
		key:    key,
		APIURL: apiURL,
		Host:   apiHost,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		Limiter: rate.NewLimiter(defaultRequestsPerSecond, defaultBurst),
	}
}

// Search fetches postings for the given params. It never returns an error:
// transport failures and non-2xx responses are logged and reported as an
// empty result, indistinguishable from a search with no hits.
func (c *Client) Search(params *SearchParams) *Postings {
	return c.search(params)
}
