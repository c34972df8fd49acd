package yandexhome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultEndpoint is the Yandex Smart Home API endpoint.
	DefaultEndpoint = "https://api.iot.yandex.net"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no other user agent is configured.
	DefaultUserAgent = "yandexhome-go"

	apiPrefix = "/v1.0"
)

// Operation names, used in errors, logs and metrics.
const (
	OpUserInfo      = "user_info"
	OpDeviceState   = "device_state"
	OpDeviceActions = "device_actions"
	OpGroupActions  = "group_actions"
	OpGroupInfo     = "group_info"
)

// credentials is the token and endpoint pair. A value is never modified
// after it is stored.
type credentials struct {
	token    string
	endpoint string
}

// Client is a Yandex Smart Home API client. It is safe for concurrent use;
// the credentials can be replaced at any time with SetCredentials.
type Client struct {
	creds             atomic.Pointer[credentials]
	httpClient        *http.Client
	logger            *slog.Logger
	metrics           *Metrics
	userAgent         string
	newRequestID      func() string
	rateLimitCallback RateLimitCallback
	lastRateLimit     *RateLimitInfo
	rateLimitMu       sync.RWMutex
	cacheConfig       *CacheConfig
	cacheGen          atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets a custom API endpoint, for example a test server URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		cur := c.creds.Load()
		c.creds.Store(&credentials{token: cur.token, endpoint: normalizeEndpoint(endpoint)})
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a new Yandex Smart Home API client.
// Returns ErrEmptyToken if token is empty.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		userAgent:    DefaultUserAgent,
		newRequestID: uuid.NewString,
	}
	c.creds.Store(&credentials{token: token, endpoint: DefaultEndpoint})

	for _, opt := range opts {
		opt(c)
	}

	if c.creds.Load().endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	return c, nil
}

// SetCredentials replaces the token and endpoint in one step. Requests
// already in flight finish with the credentials they started with.
func (c *Client) SetCredentials(token, endpoint string) error {
	if token == "" {
		return ErrEmptyToken
	}
	endpoint = normalizeEndpoint(endpoint)
	if endpoint == "" {
		return ErrEmptyEndpoint
	}
	c.creds.Store(&credentials{token: token, endpoint: endpoint})
	c.InvalidateCache()
	return nil
}

// SetToken replaces the token and keeps the current endpoint.
func (c *Client) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	for {
		cur := c.creds.Load()
		next := &credentials{token: token, endpoint: cur.endpoint}
		if c.creds.CompareAndSwap(cur, next) {
			c.InvalidateCache()
			return nil
		}
	}
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.creds.Load().token
}

// Endpoint returns the current API endpoint.
func (c *Client) Endpoint() string {
	return c.creds.Load().endpoint
}

func normalizeEndpoint(endpoint string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/")
}

// response is a completed round trip.
type response struct {
	body      []byte
	requestID string
}

// do performs one HTTP request and returns the response body. Any non-2xx
// status or network failure is returned as an *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (*response, error) {
	creds := c.creds.Load()
	requestID := c.newRequestID()

	var reqBody io.Reader
	if body != nil {
		data, err := marshalJSON(body)
		if err != nil {
			return nil, fmt.Errorf("yandexhome: %s: failed to marshal request body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, creds.endpoint+apiPrefix+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("yandexhome: %s: failed to create request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+creds.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.LogRequest(ctx, op, method, path, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Operation: op,
			RequestID: requestID,
			Message:   "Exception: " + err.Error(),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	c.parseRateLimitHeaders(ctx, resp.Header)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Message:    "Exception: " + err.Error(),
			Err:        err,
		}
	}

	c.LogResponse(ctx, op, method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.handleError(op, requestID, resp.StatusCode, respBody)
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, apiErr
	}

	return &response{body: respBody, requestID: requestID}, nil
}

// errorEnvelope is the body of an unsuccessful response.
type errorEnvelope struct {
	Status       string `json:"status"`
	RequestID    string `json:"request_id"`
	Message      string `json:"message"`
	ErrorMessage string `json:"error_message"`
}

// handleError converts an HTTP error response to an *APIError. When the body
// is not a valid error envelope the decode failure text becomes the message.
func (c *Client) handleError(op, requestID string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Operation:  op,
		StatusCode: statusCode,
		RequestID:  requestID,
		Body:       truncatePreview(body),
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		apiErr.Status = "error"
		apiErr.Message = "Exception: " + err.Error()
		return apiErr
	}

	apiErr.Status = env.Status
	if env.RequestID != "" {
		apiErr.RequestID = env.RequestID
	}
	switch {
	case env.Message != "":
		apiErr.Message = env.Message
	case env.ErrorMessage != "":
		apiErr.Message = env.ErrorMessage
	default:
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, op, path string) (*response, error) {
	return c.do(ctx, op, http.MethodGet, path, nil)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, op, path string, body any) (*response, error) {
	return c.do(ctx, op, http.MethodPost, path, body)
}

// finish records the outcome of an operation. It is deferred by every
// public operation with a pointer to its named error result.
func (c *Client) finish(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	outcome := Classify(err)
	c.metrics.observe(op, outcome, time.Since(start), err)
	if err != nil {
		c.logFailure(ctx, op, outcome, err)
	}
}
