package baxus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/honeybarrel/backend/internal/domain"
	"github.com/honeybarrel/backend/internal/infrastructure/metrics"
)

const (
	// DefaultBaseURL is the BAXUS services host
	DefaultBaseURL = "https://services.baxus.co"

	// DefaultPageSize is how many listings one catalog snapshot holds
	DefaultPageSize = 20

	maxAttempts = 3
	userAgent   = "HoneyBarrel/1.0"
)

// Client handles communication with the BAXUS marketplace search API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
	debug       bool
}

// Option configures a Client
type Option func(*Client)

// WithPageSize sets the number of listings requested per fetch
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithRateLimit caps outbound requests per minute
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), max(1, perMinute/6))
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("baxus")
		}
	}
}

// NewClient creates a new BAXUS API client
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		// 60 requests per minute with a burst of 10
		rateLimiter: rate.NewLimiter(rate.Limit(1), 10),
		pageSize:    DefaultPageSize,
		backoff:     exponentialBackoff,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// listingsURL builds the search URL for listed bottles
func (c *Client) listingsURL() string {
	params := url.Values{}
	params.Add("from", "0")
	params.Add("size", strconv.Itoa(c.pageSize))
	params.Add("listed", "true")
	return fmt.Sprintf("%s/api/search/listings?%s", c.baseURL, params.Encode())
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.MarketplaceRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MarketplaceRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketplaceAPIFailure, err)
	}
	metrics.MarketplaceRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	return resp, nil
}

// FetchListings fetches the current page of listed bottles
func (c *Client) FetchListings(ctx context.Context) ([]domain.ListingRecord, error) {
	reqURL := c.listingsURL()
	if c.debug {
		c.logger.Debug("fetching listings", zap.String("url", reqURL))
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.logger.Warn("listings request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrMarketplaceAPIFailure, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("listings API error",
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", truncate(body, 512)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrMarketplaceAPIFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		var searchResp domain.BAXUSSearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		listings := MapToListings(&searchResp)
		c.logger.Info("fetched listings", zap.Int("count", len(listings)))
		return listings, nil
	}

	c.logger.Error("all listings attempts failed", zap.Error(lastErr))
	return nil, lastErr
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
