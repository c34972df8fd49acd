package yandexhome

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors returned by the client.
var (
	// Authentication errors
	ErrUnauthorized = errors.New("yandexhome: unauthorized (invalid or expired token)")
	ErrEmptyToken   = errors.New("yandexhome: API token cannot be empty")

	// Configuration errors
	ErrEmptyEndpoint = errors.New("yandexhome: API endpoint cannot be empty")

	// Resource errors
	ErrNotFound = errors.New("yandexhome: resource not found")

	// Rate limiting
	ErrRateLimited = errors.New("yandexhome: rate limited (too many requests)")

	// Request validation errors
	ErrEmptyDeviceID = errors.New("yandexhome: device ID cannot be empty")
	ErrEmptyGroupID  = errors.New("yandexhome: group ID cannot be empty")
	ErrNoActions     = errors.New("yandexhome: action request has no actions")

	// Decoding errors
	ErrMissingField = errors.New("missing required field")
)

// APIError is a transport-level failure: a non-2xx response, or a request
// that never produced a response (StatusCode 0).
type APIError struct {
	Operation  string
	StatusCode int
	Status     string
	RequestID  string
	Message    string
	// Body is the raw response body, truncated for logging.
	Body string
	// RetryAfter is the wait requested by a Retry-After header.
	RetryAfter time.Duration
	// Err is the underlying network error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("yandexhome: ")
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "API error %d: ", e.StatusCode)
	}
	b.WriteString(e.Message)
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Unwrap returns the underlying network error.
func (e *APIError) Unwrap() error { return e.Err }

// Is maps status codes onto the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// DecodeError reports a response that could not be mapped onto the model.
type DecodeError struct {
	// Path locates the object, for example "devices[2]".
	Path string
	// Field is the offending field of that object, if known.
	Field string
	Err   error
}

// Location returns Path and Field joined, for example "devices[2].type".
func (e *DecodeError) Location() string {
	return joinPath(e.Path, e.Field)
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if loc := e.Location(); loc != "" {
		return fmt.Sprintf("yandexhome: decode %s: %v", loc, e.Err)
	}
	return fmt.Sprintf("yandexhome: decode: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// ActionError is one failed item of an action response.
type ActionError struct {
	DeviceID string
	// Type and Instance are empty for a device-level failure.
	Type     CapabilityType
	Instance string
	Code     ActionErrorCode
	Message  string
}

// Error renders the failure as "CODE: message".
func (e ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ApplicationError is returned when the service accepted an action request
// but reported at least one item as failed.
type ApplicationError struct {
	Operation string
	RequestID string
	// First is the first failure in device, then capability order.
	First ActionError
	// Errors holds every failure in the same order.
	Errors   []ActionError
	Response *ActionResponse
}

// Error implements the error interface.
func (e *ApplicationError) Error() string {
	msg := fmt.Sprintf("yandexhome: %s: %s", e.Operation, e.First.Error())
	if n := len(e.Errors); n > 1 {
		msg += fmt.Sprintf(" (and %d more)", n-1)
	}
	return msg
}

// InvalidReferenceError is returned when an edit names a capability or
// instance the target does not have. No request is sent.
type InvalidReferenceError struct {
	TargetID string
	Type     CapabilityType
	Instance string
}

// Error implements the error interface.
func (e *InvalidReferenceError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("yandexhome: %s has no capability %s with instance %q", e.target(), e.Type, e.Instance)
	}
	return fmt.Sprintf("yandexhome: %s has no capability %s", e.target(), e.Type)
}

func (e *InvalidReferenceError) target() string {
	if e.TargetID == "" {
		return "target"
	}
	return e.TargetID
}

// IsUnauthorized returns true if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound returns true if the error indicates the resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsDecodeError returns true if a response could not be decoded.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// IsApplicationError returns true if the service reported a per-item failure.
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}

// IsInvalidReference returns true if an edit referenced a missing capability.
func IsInvalidReference(err error) bool {
	var refErr *InvalidReferenceError
	return errors.As(err, &refErr)
}
