package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NotConfiguredMessage is shown when app credentials are missing.
const NotConfiguredMessage = "Not configured. Please run: helpscout auth login"

// APIError is a non-2xx response from a resource call.
type APIError struct {
	Message    string
	StatusCode int
	// Body is the decoded error response, or an empty object when the
	// response was not JSON.
	Body      any
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "API request failed"
	}
	body := ""
	if e.Body != nil {
		if b, err := json.Marshal(e.Body); err == nil {
			body = string(b)
		}
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s (status %d, request %s): %s", msg, e.StatusCode, e.RequestID, body)
	}
	return fmt.Sprintf("%s (status %d): %s", msg, e.StatusCode, body)
}

// AuthError means the token endpoint rejected the final grant attempt.
type AuthError struct {
	Reason     string
	StatusCode int
	Body       any
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

// ConfigError reports missing or unusable local configuration.
type ConfigError struct {
	Message    string
	StatusCode int
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure. It is never retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports a bad argument detected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func errNotConfigured() error {
	return &ConfigError{Message: NotConfiguredMessage, StatusCode: http.StatusUnauthorized}
}

// IsAuthError checks if the error is an authentication error.
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsNetworkError checks if the error is a transport failure.
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsValidationError checks if the error is an argument validation error.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsConfigError checks if the error reports missing configuration.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
