// Package marketstall provides a client for the Marketstall listings search API.
package marketstall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Category selects which marketplace index a search runs against.
type Category string

const (
	// CategorySold searches completed/sold transactions.
	CategorySold Category = "sold"
	// CategoryOffered searches items currently offered for sale.
	CategoryOffered Category = "offered"
)

// Client defines the Marketstall search operations.
type Client interface {
	// Search runs a listings search against the given category. A response
	// with zero results is a valid, non-error outcome.
	Search(ctx context.Context, query string, cat Category) (*SearchResponse, error)
}

// SearchResponse is the parsed search API response.
type SearchResponse struct {
	Query   string    `json:"query"`
	Results []Listing `json:"results"`
}

// Listing is one search hit, with listing text as it appears on the
// marketplace. Price and condition are raw free text, not normalized values.
type Listing struct {
	Title     string `json:"title"`
	PriceText string `json:"price"`
	Condition string `json:"condition"`
	Observed  string `json:"observed"`
	URL       string `json:"url"`
}

// Option configures the Marketstall client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second. The limiter blocks inside
// Search, so callers never see rate-limit handling.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Marketstall search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.marketstall.io/v1",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures (429, 500, 502, 503). Returns the response body and
// status code on success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "marketstall: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("marketstall: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) Search(ctx context.Context, query string, cat Category) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "marketstall: rate limiter")
		}
	}

	reqURL := fmt.Sprintf("%s/search/%s?q=%s", c.baseURL, cat, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "marketstall: create request")
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "marketstall: request failed")
	}

	// The API returns 422 when the query matches nothing in the category.
	// Treat this as empty results rather than an error.
	if statusCode == http.StatusUnprocessableEntity {
		return &SearchResponse{Query: query}, nil
	}

	if statusCode != http.StatusOK {
		return nil, eris.Errorf("marketstall: unexpected status %d: %s", statusCode, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "marketstall: unmarshal response")
	}

	return &result, nil
}
