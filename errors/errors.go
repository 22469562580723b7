package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// InvalidType reports an unusable registration type.
func InvalidType(reason string) *AppError {
	return New(ErrCodeInvalidType, reason)
}

// NotRegistered reports an unknown client name.
func NotRegistered(name string) *AppError {
	return New(ErrCodeNotRegistered, fmt.Sprintf("client %q is not registered", name)).
		WithDetail("client", name)
}

// SettingsResolution wraps a settings factory failure for a client.
func SettingsResolution(name string, cause error) *AppError {
	return New(ErrCodeSettingsResolution, fmt.Sprintf("resolve settings for %q", name)).
		WithDetail("client", name).
		WithCause(cause)
}

// HandlerConstruction wraps a handler chain construction failure for a client.
func HandlerConstruction(name string, cause error) *AppError {
	return New(ErrCodeHandlerConstruction, fmt.Sprintf("build handler for %q", name)).
		WithDetail("client", name).
		WithCause(cause)
}

// InvalidProxy reports a generated instance that does not satisfy its type.
func InvalidProxy(typeName string, got any) *AppError {
	return New(ErrCodeInvalidProxy, fmt.Sprintf("proxy for %s has type %T", typeName, got)).
		WithDetail("type", typeName)
}

// InvalidConfig reports a configuration validation failure.
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// TokenAcquisition wraps a token getter failure.
func TokenAcquisition(cause error) *AppError {
	return New(ErrCodeTokenAcquisition, "acquire authorization token").WithCause(cause)
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}
