package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Provider resolves the USD conversion rate for price display. Implementations
// must always return a usable rate, degrading to a cached or fallback value.
type Provider interface {
	Rate(ctx context.Context) float64
}

// HTTPClient fetches the rate from an exchange service and caches it.
type HTTPClient struct {
	endpoint   *url.URL
	currency   string
	ttl        time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	cached    float64
	fetchedAt time.Time
}

// ratesResponse mirrors the exchange service payload.
type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// NewHTTPClient creates a rate client with the provided fallback value.
func NewHTTPClient(endpoint, currency string, fallback float64, ttl time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse rate service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("rate service url must be absolute")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HTTPClient{
		endpoint: parsed,
		currency: currency,
		ttl:      ttl,
		cached:   fallback,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Rate returns the cached rate, refreshing it when the cache has expired.
// Refresh failures keep serving the previous value.
func (c *HTTPClient) Rate(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.cached
	}

	rate, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("rate refresh failed", slog.String("error", err.Error()), slog.Float64("cached", c.cached))
		return c.cached
	}

	c.cached = rate
	c.fetchedAt = time.Now()
	return c.cached
}

func (c *HTTPClient) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	var data ratesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, err
	}
	rate, ok := data.Rates[c.currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate service response has no %s rate", c.currency)
	}
	return rate, nil
}
