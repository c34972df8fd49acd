package yandexhome

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		wantMsg string
	}{
		{
			name: "with request ID",
			err: &APIError{
				Operation:  OpDeviceState,
				StatusCode: 500,
				Message:    "Internal server error",
				RequestID:  "abc123",
			},
			wantMsg: "yandexhome: device_state: API error 500: Internal server error (request_id: abc123)",
		},
		{
			name: "without request ID",
			err: &APIError{
				StatusCode: 400,
				Message:    "Bad request",
			},
			wantMsg: "yandexhome: API error 400: Bad request",
		},
		{
			name: "network failure",
			err: &APIError{
				Operation: OpUserInfo,
				Message:   "Exception: connection refused",
			},
			wantMsg: "yandexhome: user_info: Exception: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("APIError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"ErrUnauthorized", ErrUnauthorized, IsUnauthorized, true},
		{"wrapped ErrUnauthorized", fmt.Errorf("refresh: %w", ErrUnauthorized), IsUnauthorized, true},
		{"APIError 401", &APIError{StatusCode: 401}, IsUnauthorized, true},
		{"APIError 403", &APIError{StatusCode: 403}, IsUnauthorized, true},
		{"APIError 500 is not unauthorized", &APIError{StatusCode: 500}, IsUnauthorized, false},
		{"APIError 404", &APIError{StatusCode: 404}, IsNotFound, true},
		{"APIError 400 is not not-found", &APIError{StatusCode: 400}, IsNotFound, false},
		{"APIError 429", &APIError{StatusCode: 429}, IsRateLimited, true},
		{"ErrRateLimited", ErrRateLimited, IsRateLimited, true},
		{"decode error", &DecodeError{Path: "devices[0]", Field: "id", Err: ErrMissingField}, IsDecodeError, true},
		{"wrapped decode error", fmt.Errorf("load: %w", &DecodeError{Err: ErrMissingField}), IsDecodeError, true},
		{"application error", &ApplicationError{}, IsApplicationError, true},
		{"invalid reference", &InvalidReferenceError{Type: CapabilityMode}, IsInvalidReference, true},
		{"plain error", errors.New("boom"), IsApplicationError, false},
		{"nil", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(&APIError{Err: timeoutError{}}) {
		t.Error("IsTimeout() = false for a wrapped timeout")
	}
	if IsTimeout(&APIError{Err: errors.New("refused")}) {
		t.Error("IsTimeout() = true for a non-timeout")
	}
	if IsTimeout(context.Canceled) {
		t.Error("IsTimeout() = true for context.Canceled")
	}
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Path: "devices[2]", Field: "type", Err: ErrMissingField}
	if err.Location() != "devices[2].type" {
		t.Errorf("Location() = %q", err.Location())
	}
	want := "yandexhome: decode devices[2].type: missing required field"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("errors.Is(err, ErrMissingField) = false")
	}

	bare := &DecodeError{Err: errors.New("unexpected end of JSON input")}
	if bare.Error() != "yandexhome: decode: unexpected end of JSON input" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestApplicationError_Error(t *testing.T) {
	first := ActionError{DeviceID: "d", Code: ErrorCodeDeviceUnreachable, Message: "offline"}
	single := &ApplicationError{Operation: OpDeviceActions, First: first, Errors: []ActionError{first}}
	if got := single.Error(); got != "yandexhome: device_actions: DEVICE_UNREACHABLE: offline" {
		t.Errorf("Error() = %q", got)
	}

	several := &ApplicationError{Operation: OpGroupActions, First: first, Errors: []ActionError{first, first, first}}
	if got := several.Error(); got != "yandexhome: group_actions: DEVICE_UNREACHABLE: offline (and 2 more)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestInvalidReferenceError_Error(t *testing.T) {
	tests := []struct {
		err  *InvalidReferenceError
		want string
	}{
		{
			err:  &InvalidReferenceError{TargetID: "lamp", Type: CapabilityRange, Instance: "volume"},
			want: `yandexhome: lamp has no capability devices.capabilities.range with instance "volume"`,
		},
		{
			err:  &InvalidReferenceError{Type: CapabilityColorSetting},
			want: "yandexhome: target has no capability devices.capabilities.color_setting",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
