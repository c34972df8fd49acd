package yandexhome

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// maxRateLimitWait caps every wait computed from response headers.
const maxRateLimitWait = 5 * time.Minute

// RateLimitInfo contains rate limit information from API response headers.
type RateLimitInfo struct {
	Limit     int       // Maximum requests allowed in the window
	Remaining int       // Requests remaining in current window
	Reset     time.Time // When the rate limit window resets
}

// RateLimitCallback is called when rate limit headers are received.
// Can be used for monitoring or preemptive throttling.
type RateLimitCallback func(RateLimitInfo)

// WithRateLimitCallback sets a callback that is invoked when rate limit headers are received.
func WithRateLimitCallback(callback RateLimitCallback) Option {
	return func(c *Client) {
		c.rateLimitCallback = callback
	}
}

// RateLimitInfo returns the most recent rate limit information from API responses.
// Returns nil if no rate limit headers have been received yet.
func (c *Client) RateLimitInfo() *RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	if c.lastRateLimit == nil {
		return nil
	}
	// Return a copy to prevent race conditions
	info := *c.lastRateLimit
	return &info
}

// parseRateLimitHeaders extracts rate limit information from response headers.
func (c *Client) parseRateLimitHeaders(ctx context.Context, header http.Header) {
	limit := header.Get("X-RateLimit-Limit")
	remaining := header.Get("X-RateLimit-Remaining")
	reset := header.Get("X-RateLimit-Reset")

	// Only process if at least one header is present
	if limit == "" && remaining == "" && reset == "" {
		return
	}

	info := RateLimitInfo{}
	if v, err := strconv.Atoi(limit); err == nil {
		info.Limit = v
	}
	if v, err := strconv.Atoi(remaining); err == nil {
		info.Remaining = v
	}
	if v, err := strconv.ParseInt(reset, 10, 64); err == nil {
		info.Reset = time.Unix(v, 0)
	}

	c.rateLimitMu.Lock()
	c.lastRateLimit = &info
	c.rateLimitMu.Unlock()

	c.LogRateLimit(ctx, info)
	if c.rateLimitCallback != nil {
		c.rateLimitCallback(info)
	}
}

// parseRetryAfter parses the Retry-After header value.
// It handles both delta-seconds (e.g., "120") and HTTP-date formats.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if delta := time.Until(t); delta > 0 {
			return delta
		}
	}
	return 0
}

// WaitForRateLimit blocks for the wait a rate-limited error asked for, or
// until the last reported window resets. It returns immediately for any
// other error. The client never retries on its own; this is for callers
// that do.
//
// Example:
//
//	for {
//	    _, err := client.ApplyDeviceActions(ctx, req)
//	    if yandexhome.IsRateLimited(err) {
//	        if err := client.WaitForRateLimit(ctx, err); err != nil {
//	            return err // Context canceled
//	        }
//	        continue
//	    }
//	    break
//	}
func (c *Client) WaitForRateLimit(ctx context.Context, err error) error {
	if !IsRateLimited(err) {
		return nil
	}

	var wait time.Duration
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		wait = apiErr.RetryAfter
	}
	if wait <= 0 {
		if info := c.RateLimitInfo(); info != nil {
			wait = time.Until(info.Reset)
		}
	}
	if wait <= 0 {
		return nil
	}
	if wait > maxRateLimitWait {
		wait = maxRateLimitWait
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
