package coinlist

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"AlertHub/internal/domain/models"
	"AlertHub/internal/service/cache"
	pkghttp "AlertHub/pkg/http"
	applogger "AlertHub/pkg/logger"
)

const cacheKey = "coinlist"

// Client fetches the tracked coin universe from the upstream sifter
// service. Responses are cached so back-to-back job runs reuse one fetch.
type Client struct {
	http      *pkghttp.Client
	cache     *cache.TTLCache
	logger    *applogger.Logger
	baseURL   string
	authToken string
	cacheTTL  time.Duration
}

type coinsResponse struct {
	Symbols []models.Coin `json:"symbols"`
}

// NewClient creates a coin-list client.
func NewClient(baseURL, authToken string, cacheTTL time.Duration, logger *applogger.Logger) *Client {
	return &Client{
		http:      pkghttp.NewClient(pkghttp.WithTimeout(30 * time.Second)),
		cache:     cache.NewTTLCache(),
		logger:    logger,
		baseURL:   baseURL,
		authToken: authToken,
		cacheTTL:  cacheTTL,
	}
}

// FetchCoins returns the current coin universe with its exchange listings.
func (c *Client) FetchCoins(ctx context.Context) ([]models.Coin, error) {
	if v, ok := c.cache.Get(cacheKey); ok {
		if coins, ok := v.([]models.Coin); ok {
			return coins, nil
		}
	}

	var resp coinsResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.baseURL + "/coins/formatted-symbols",
		Headers: map[string]string{
			"X-Auth-Token": c.authToken,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch coins: %w", err)
	}

	c.logger.Info("coin list fetched", applogger.Int("coins", len(resp.Symbols)))
	c.cache.Set(cacheKey, resp.Symbols, c.cacheTTL)
	return resp.Symbols, nil
}
