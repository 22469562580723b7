package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeConnection, "connection"},
		{ErrCodeCanceled, "canceled"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeClient, "client"},
		{ErrCodeServer, "server"},
		{ErrCodeInvalidRequest, "invalid_request"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound}
	if got, want := e.Error(), "httpclient: not_found (HTTP 404)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := transportError(ErrCodeConnection, fmt.Errorf("connection refused"))
	if got, want := e2.Error(), "httpclient: connection: connection refused"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !stderrors.Is(transportError(ErrCodeCanceled, context.Canceled), context.Canceled) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
	}{
		{200, true, 0},
		{204, true, 0},
		{400, false, ErrCodeClient},
		{401, false, ErrCodeAuth},
		{403, false, ErrCodeAuth},
		{404, false, ErrCodeNotFound},
		{429, false, ErrCodeClient},
		{500, false, ErrCodeServer},
		{503, false, ErrCodeServer},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			e := ClassifyStatusCode(tt.code, []byte("body"))
			if tt.wantNil {
				if e != nil {
					t.Errorf("expected nil, got %v", e)
				}
				return
			}
			if e == nil {
				t.Fatal("expected error, got nil")
			}
			if e.Code != tt.errCode {
				t.Errorf("code = %v, want %v", e.Code, tt.errCode)
			}
			if e.StatusCode != tt.code || string(e.Body) != "body" {
				t.Errorf("unexpected error contents %+v", e)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("call: %w", ClassifyStatusCode(401, nil))
	if !IsAuth(wrapped) {
		t.Error("IsAuth should see through wrapping")
	}
	if !IsNotFound(ClassifyStatusCode(404, nil)) {
		t.Error("IsNotFound should match 404")
	}
	if !IsServerError(ClassifyStatusCode(502, nil)) {
		t.Error("IsServerError should match 502")
	}
	if !IsConnection(transportError(ErrCodeConnection, stderrors.New("refused"))) {
		t.Error("IsConnection should match transport errors")
	}
	if IsAuth(stderrors.New("plain")) {
		t.Error("plain errors carry no code")
	}
	if StatusCode(wrapped) != 401 || StatusCode(stderrors.New("x")) != 0 {
		t.Error("unexpected StatusCode result")
	}
}
