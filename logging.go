package yandexhome

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Logger is an optional interface for structured logging.
// It uses the standard library's slog interface for compatibility.
type Logger interface {
	// LogAttrs logs a message with the given level and attributes.
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
}

// WithLogger configures a structured logger for the client.
// When set, the client logs requests, responses and every failed operation.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	client, _ := yandexhome.NewClient("token", yandexhome.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// LoggingTransport wraps an http.RoundTripper and logs requests/responses.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper with logging.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get("X-Request-Id")

	if t.Logger != nil {
		t.Logger.LogAttrs(req.Context(), slog.LevelDebug, "api_request",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("request_id", requestID),
		)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	if t.Logger != nil {
		if err != nil {
			t.Logger.LogAttrs(req.Context(), slog.LevelError, "api_error",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.String("request_id", requestID),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
			)
		} else {
			t.Logger.LogAttrs(req.Context(), statusLevel(resp.StatusCode), "api_response",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.String("request_id", requestID),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", duration),
			)
		}
	}

	return resp, err
}

func statusLevel(statusCode int) slog.Level {
	switch {
	case statusCode >= 500:
		return slog.LevelError
	case statusCode >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// LogRequest logs an API request about to be sent.
func (c *Client) LogRequest(ctx context.Context, op, method, path, requestID string) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api_request",
		slog.String("operation", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)
}

// LogResponse logs the status of a completed round trip.
func (c *Client) LogResponse(ctx context.Context, op, method, path string, statusCode int, duration time.Duration) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, statusLevel(statusCode), "api_response",
		slog.String("operation", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", statusCode),
		slog.Duration("duration", duration),
	)
}

// LogRateLimit logs rate limit information at info level.
func (c *Client) LogRateLimit(ctx context.Context, info RateLimitInfo) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "rate_limit",
		slog.Int("limit", info.Limit),
		slog.Int("remaining", info.Remaining),
		slog.Time("reset", info.Reset),
	)
}

// logFailure logs a failed operation with whatever the error carries: the
// status and raw body of a transport failure, the location of a decode
// failure, or every failed item of an application failure.
func (c *Client) logFailure(ctx context.Context, op string, outcome Outcome, err error) {
	if c.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", op),
		slog.String("outcome", outcome.String()),
		slog.String("error", err.Error()),
	}

	var apiErr *APIError
	var decodeErr *DecodeError
	var appErr *ApplicationError
	switch {
	case errors.As(err, &apiErr):
		attrs = append(attrs,
			slog.Int("status", apiErr.StatusCode),
			slog.String("request_id", apiErr.RequestID),
			slog.String("body", apiErr.Body),
		)
	case errors.As(err, &decodeErr):
		attrs = append(attrs, slog.String("path", decodeErr.Location()))
	case errors.As(err, &appErr):
		attrs = append(attrs,
			slog.String("request_id", appErr.RequestID),
			slog.Int("failures", len(appErr.Errors)),
		)
		for _, f := range appErr.Errors {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "action_error",
				slog.String("operation", op),
				slog.String("device_id", f.DeviceID),
				slog.String("capability", string(f.Type)),
				slog.String("instance", f.Instance),
				slog.String("code", string(f.Code)),
				slog.String("message", f.Message),
			)
		}
	}

	c.logger.LogAttrs(ctx, slog.LevelError, "operation_failed", attrs...)
}

// NewLoggingClient creates a client with request/response logging enabled.
// This is a convenience function that wraps the HTTP transport with logging.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client, err := yandexhome.NewLoggingClient("token", logger)
func NewLoggingClient(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	transport := &LoggingTransport{
		Base: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
		Logger: logger,
	}

	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}

	// Prepend WithHTTPClient and WithLogger to options
	allOpts := append([]Option{WithHTTPClient(httpClient), WithLogger(logger)}, opts...)

	return NewClient(token, allOpts...)
}
