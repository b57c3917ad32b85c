package api

import (
	"errors"
	"net/http"
	"strings"
)

// Error envelope names that are not taken from the API body.
const (
	NameCLIError     = "cli_error"
	NameAPIError     = "api_error"
	NameUnknownError = "unknown_error"
	NameRateLimited  = "too_many_requests"
)

const (
	defaultErrorDetail  = "An error occurred"
	unexpectedErrDetail = "An unexpected error occurred"
	rateLimitHint       = "Help Scout API limit: 200 requests/minute. Wait a moment and retry."
)

// errorStatusCodes maps API error names to a status when the response did
// not carry one.
var errorStatusCodes = map[string]int{
	"bad_request":           400,
	"unauthorized":          401,
	"forbidden":             403,
	"not_found":             404,
	"conflict":              409,
	"too_many_requests":     429,
	"internal_server_error": 500,
	"service_unavailable":   503,
}

// ErrorDetail is the body of an ErrorEnvelope.
type ErrorDetail struct {
	Name       string `json:"name"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"statusCode"`
}

// ErrorEnvelope is the single structured error printed on failure.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
	Hint  string      `json:"hint,omitempty"`
}

// Classify maps any error to the uniform envelope. All text is redacted.
func Classify(err error) ErrorEnvelope {
	if err == nil {
		return newEnvelope(NameUnknownError, unexpectedErrDetail, 1)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		name, detail := describeErrorBody(apiErr.Body)
		return newEnvelope(name, detail, statusOrDefault(apiErr.StatusCode, name))
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		name, detail := describeErrorBody(authErr.Body)
		if detail == defaultErrorDetail && authErr.Reason != "" {
			detail = Redact(authErr.Reason)
		}
		return newEnvelope(name, detail, statusOrDefault(authErr.StatusCode, name))
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return newEnvelope(NameCLIError, Redact(cfgErr.Message), nonZero(cfgErr.StatusCode, 1))
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return newEnvelope(NameCLIError, Redact(valErr.Message), http.StatusBadRequest)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return newEnvelope(NameCLIError, Redact(netErr.Error()), 1)
	}

	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = unexpectedErrDetail
	}
	return newEnvelope(NameUnknownError, Redact(msg), 1)
}

func newEnvelope(name, detail string, status int) ErrorEnvelope {
	env := ErrorEnvelope{Error: ErrorDetail{Name: name, Detail: detail, StatusCode: status}}
	if name == NameRateLimited {
		env.Hint = rateLimitHint
	}
	return env
}

func statusOrDefault(status int, name string) int {
	if status != 0 {
		return status
	}
	if mapped, ok := errorStatusCodes[name]; ok {
		return mapped
	}
	return http.StatusInternalServerError
}

func nonZero(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// describeErrorBody extracts the envelope name and a redacted detail from a
// decoded API error body.
func describeErrorBody(body any) (string, string) {
	obj, ok := body.(map[string]any)
	if !ok {
		return NameAPIError, defaultErrorDetail
	}

	name := NameAPIError
	if s, ok := obj["error"].(string); ok && s != "" {
		name = s
	}

	detail := defaultErrorDetail
	if s, ok := obj["error_description"].(string); ok && s != "" {
		detail = s
	} else if s, ok := obj["message"].(string); ok && s != "" {
		detail = s
	} else if parts := embeddedErrorMessages(obj); len(parts) > 0 {
		detail = strings.Join(parts, "; ")
	}
	return name, Redact(detail)
}

func embeddedErrorMessages(obj map[string]any) []string {
	embedded, ok := obj["_embedded"].(map[string]any)
	if !ok {
		return nil
	}
	list, ok := embedded["errors"].([]any)
	if !ok {
		return nil
	}
	var parts []string
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := entry["message"].(string); ok && s != "" {
			parts = append(parts, s)
		} else if s, ok := entry["path"].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
