package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"disclosures/internal/config"
	"disclosures/internal/domain"
)

// Client downloads the disclosure feed. Transport failures are fatal to
// the run; there is no retry.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	feedURL    string
	logger     *slog.Logger
}

// NewClient creates a feed client from the source configuration
func NewClient(cfg config.SourcesConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		feedURL:    cfg.FeedURL,
		logger:     logger,
	}
}

// FetchTransactions retrieves and decodes the JSON array of raw
// transaction records from the configured feed URL.
func (c *Client) FetchTransactions(ctx context.Context) ([]domain.RawTransaction, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	c.logger.InfoContext(ctx, "fetching disclosure feed", "url", c.feedURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch disclosure feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("disclosure feed returned status %d", resp.StatusCode)
	}

	var records []domain.RawTransaction
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode disclosure feed: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched disclosure feed",
		"records", len(records),
		"duration", time.Since(start),
	)
	return records, nil
}

// ReadTransactions decodes a previously cached copy of the feed.
func ReadTransactions(r io.Reader) ([]domain.RawTransaction, error) {
	var records []domain.RawTransaction
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode cached feed: %w", err)
	}
	return records, nil
}
