// Package picker talks to the external export service that turns opaque
// selection keys into raw BibTeX text.
package picker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps export requests per second; the service is typically
	// a local translation server and dislikes bursts.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for the export service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	requestID  atomic.Int32
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new export service client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    baseURL,
	}

	if key := os.Getenv("BIBMERGE_PICKER_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exportRequest is the JSON body sent to the export endpoint.
type exportRequest struct {
	Keys   []string `json:"keys"`
	Format string   `json:"format"`
}

// Export fetches raw BibTeX text for the given selection keys.
// An empty key list returns empty text without a request.
func (c *Client) Export(ctx context.Context, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(exportRequest{Keys: keys, Format: "bibtex"})
	if err != nil {
		return "", fmt.Errorf("encoding export request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Correlates calls in service logs; owned by this boundary, not global.
	req.Header.Set("X-Request-ID", strconv.Itoa(int(c.requestID.Add(1))))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("export service returned %d: %s", resp.StatusCode, string(data))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading export response: %w", err)
	}

	return string(data), nil
}
