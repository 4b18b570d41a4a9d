package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxBodySize = 8 << 20

// StatusError is returned when a page answers with a non-200 status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// HTTPClient is a rate-limited HTTP client for scraping
type HTTPClient struct {
	client     *http.Client
	limiter    *rate.Limiter
	userAgents []string
	maxRetries int
	backoff    time.Duration
}

// NewHTTPClient creates a client that issues at most requestsPerMinute
// requests, with a small burst.
func NewHTTPClient(requestsPerMinute int, timeout time.Duration) *HTTPClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 2),
		userAgents: defaultUserAgents,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
}

// Get performs a rate-limited GET request. Network errors, 429 and 5xx
// responses are retried with exponential backoff.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff * time.Duration(1<<uint(attempt-1))
			slog.Debug("retrying request", "attempt", attempt+1, "backoff", backoff, "url", url)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return nil, lastErr
}

func (c *HTTPClient) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.randomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

func (c *HTTPClient) randomUserAgent() string {
	//nolint:gosec // math/rand is fine for user-agent rotation, not security-sensitive
	return c.userAgents[rand.Intn(len(c.userAgents))]
}

// describeFetchError turns a transport error into a human-readable scrape
// failure reason.
func describeFetchError(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone:
			return fmt.Sprintf("page returned status %d: item may have been removed", se.StatusCode)
		case se.StatusCode == http.StatusTooManyRequests:
			return "rate limited by supplier"
		case se.StatusCode == http.StatusForbidden:
			return "blocked by supplier (status 403)"
		default:
			return fmt.Sprintf("page returned status %d", se.StatusCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out fetching product page"
	}
	return fmt.Sprintf("failed to fetch product page: %v", err)
}
