package yandexhome

import (
	"context"
	"errors"
	"net/http"
)

// Outcome is the category of a finished operation.
type Outcome int

// Operation outcomes.
const (
	// OutcomeSuccess means the operation returned a value.
	OutcomeSuccess Outcome = iota
	// OutcomeApplicationFailure means the service answered 2xx but reported
	// at least one failed item.
	OutcomeApplicationFailure
	// OutcomeTransportFailure means a non-2xx status or no response at all.
	OutcomeTransportFailure
	// OutcomeDecodeFailure means a response could not be mapped onto the model.
	OutcomeDecodeFailure
	// OutcomeInvalidReference means an edit was rejected before sending.
	OutcomeInvalidReference
)

// String returns the outcome as a metric label value.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeApplicationFailure:
		return "application_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeDecodeFailure:
		return "decode_failure"
	case OutcomeInvalidReference:
		return "invalid_reference"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by this package onto an Outcome. Errors
// that do not come from a response, such as request validation failures or
// a cancelled context, count as transport failures.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsApplicationError(err):
		return OutcomeApplicationFailure
	case IsInvalidReference(err):
		return OutcomeInvalidReference
	case IsDecodeError(err):
		return OutcomeDecodeFailure
	default:
		return OutcomeTransportFailure
	}
}

// Message returns a single human-readable message for err, suitable for
// showing to a user. It returns "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var appErr *ApplicationError
	var refErr *InvalidReferenceError
	var apiErr *APIError
	switch {
	case errors.As(err, &appErr):
		if appErr.First.Message != "" {
			return appErr.First.Message
		}
		return string(appErr.First.Code)
	case errors.As(err, &refErr):
		return refErr.Error()
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusUnauthorized {
			return "authorization failed, check the token"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	case IsDecodeError(err):
		return "unexpected response from the smart home service"
	default:
		return err.Error()
	}
}
