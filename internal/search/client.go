package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tablesearch/internal/csrf"
	"tablesearch/internal/domain"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 1 << 20

// ErrUnexpectedStatus is returned when the endpoint answers anything but 200
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError carries the status of a rejected request
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUnexpectedStatus, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Client posts search queries to the CMS search endpoint
type Client struct {
	http      *http.Client
	tokens    csrf.Provider
	userAgent string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a search client
func NewClient(tokens csrf.Provider, opts ...ClientOption) *Client {
	c := &Client{
		http:   &http.Client{},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient returns the underlying HTTP client
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Query asks the endpoint for objects of objectType matching query.
// Suggestions are returned in server order.
func (c *Client) Query(ctx context.Context, url, objectType, query string, archived bool) ([]domain.Suggestion, error) {
	body, err := json.Marshal(domain.NewQueryRequest(objectType, query, archived))
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	csrf.Apply(req, c.tokens)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	var out domain.QueryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return out.Data, nil
}
