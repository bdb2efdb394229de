// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the HTTP client timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody bounds the response body quoted in a ConnectionError.
const maxErrorBody = 512

// RequestOptions carries per-request settings.
type RequestOptions struct {
	// Headers are added to the request (e.g. the Pure "api-key" header).
	Headers map[string]string
}

// Response is a fully read 2xx HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ConnectionError reports a network failure (StatusCode 0) or a non-2xx
// response.
type ConnectionError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s returned HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Connection sends requests relative to a base URL. It holds no per-call
// state and is safe for concurrent use.
type Connection struct {
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	logger     *zap.Logger
}

// Option configures a Connection.
type Option func(*Connection)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Connection) {
		c.client = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Connection) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Connection) {
		c.userAgent = ua
	}
}

// WithMaxRetries sets the number of retries on HTTP 429.
func WithMaxRetries(n int) Option {
	return func(c *Connection) {
		c.maxRetries = n
	}
}

// WithLogger sets the logger for retries and request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Connection) {
		c.logger = l
	}
}

// NewConnection creates a Connection for baseURL.
func NewConnection(baseURL string, opts ...Option) *Connection {
	c := &Connection{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Connection) BaseURL() string { return c.baseURL }

// Get sends a GET request for path with the given query parameters.
func (c *Connection) Get(ctx context.Context, path string, query url.Values, opts RequestOptions) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, opts)
}

// PostJSON sends body encoded as JSON to path.
func (c *Connection) PostJSON(ctx context.Context, path string, body any, opts RequestOptions) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, data, opts)
}

func (c *Connection) do(ctx context.Context, method, path string, query url.Values, body []byte, opts RequestOptions) (*Response, error) {
	reqURL := c.baseURL + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ConnectionError{Method: method, URL: reqURL, Message: err.Error(), Err: err}
		}
	}

	c.logger.Debug("sending request", zap.String("method", method), zap.String("url", reqURL))
	resp, err := DoWithRetry(ctx, c.client, req, c.maxRetries, c.logger)
	if err != nil {
		return nil, &ConnectionError{Method: method, URL: reqURL, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Method: method, URL: reqURL, StatusCode: resp.StatusCode, Message: "reading response body: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ConnectionError{
			Method:     method,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, data),
		}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// errorMessage quotes the start of an error body, or the status text when
// the body is empty.
func errorMessage(status int, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return http.StatusText(status)
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}
