package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/helpscout/helpscout-cli/internal/debug"
)

const (
	DefaultBaseURL = "https://api.helpscout.net/v2"
	DefaultTimeout = 30 * time.Second

	// EnvBaseURL overrides DefaultBaseURL.
	EnvBaseURL = "HELPSCOUT_BASE_URL"
)

// Client is the Help Scout API client. It owns the Token Manager and issues
// every resource call through Dispatch.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string
	Tokens    *TokenManager
	Retry     RetryConfig

	// sleep is replaced in tests so rate-limit waits return immediately.
	sleep func(ctx context.Context, d time.Duration) error
}

// Compile-time interface implementation check
var _ Requester = (*Client)(nil)

// New creates a client backed by the given secret store.
func New(store SecretStore) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	baseURL := DefaultBaseURL
	if env := strings.TrimSpace(os.Getenv(EnvBaseURL)); env != "" {
		baseURL = env
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    httpClient,
		Tokens:  NewTokenManager(store, baseURL+"/oauth2/token", httpClient),
		Retry:   DefaultRetryConfig(),
		sleep:   sleepWithContext,
	}
}

// newTestClient points a client at a fake server with instant sleeps.
func newTestClient(baseURL string, store SecretStore) *Client {
	c := New(store)
	c.BaseURL = strings.TrimSuffix(baseURL, "/")
	c.Tokens.TokenURL = c.BaseURL + "/oauth2/token"
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

// SetSleep overrides how rate-limit waits are performed.
func (c *Client) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	c.sleep = fn
}

// Request describes one logical API call. Query values that are nil are
// omitted; everything else is stringified.
type Request struct {
	Method string
	Path   string
	Query  map[string]any
	Body   any

	// NoRetryOn401 and NoRetryOn429 disable the corresponding retry for this
	// call. Both retries are enabled by default.
	NoRetryOn401 bool
	NoRetryOn429 bool
}

// Response is the decoded outcome of a successful dispatch.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

var emptyObject = json.RawMessage(`{}`)

// Dispatch sends the request, refreshing the token once on 401 and waiting
// once on 429. Each failure class is retried at most one time per call.
func (c *Client) Dispatch(ctx context.Context, req Request) (*Response, error) {
	reqURL, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var body []byte
	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	retry401 := !req.NoRetryOn401
	retry429 := !req.NoRetryOn429
	attempt := 0

	for {
		attempt++
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		status, header, respBody, err := c.send(ctx, req.Method, reqURL, token, body)
		if err != nil {
			debug.Log(ctx, "request failed", "method", req.Method, "url", reqURL, "attempt", attempt, "error", err)
			return nil, &NetworkError{Op: "Network request failed", Err: err}
		}
		debug.Log(ctx, "request complete", "method", req.Method, "url", reqURL, "status", status, "attempt", attempt, "duration", time.Since(start))

		switch {
		case status == http.StatusUnauthorized && retry401:
			retry401 = false
			if _, err := c.Tokens.Reauthenticate(ctx, token); err != nil {
				return nil, err
			}
			continue

		case status == http.StatusTooManyRequests && retry429:
			retry429 = false
			wait := c.Retry.rateLimitWait(header)
			slog.Warn("rate limited, waiting before retry", "wait", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue

		case status == http.StatusNoContent:
			return &Response{StatusCode: status, Header: header, Body: emptyObject}, nil

		case status < 200 || status >= 300:
			return nil, &APIError{
				Message:    "API request failed",
				StatusCode: status,
				Body:       parseErrorBody(respBody),
				RequestID:  requestIDFromHeader(header),
			}
		}

		if len(bytes.TrimSpace(respBody)) == 0 {
			respBody = emptyObject
		} else if !json.Valid(respBody) {
			return nil, fmt.Errorf("unexpected API response format (invalid JSON, status %d)", status)
		}
		return &Response{StatusCode: status, Header: header, Body: respBody}, nil
	}
}

func (c *Client) send(ctx context.Context, method, reqURL, token string, body []byte) (int, http.Header, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return 0, nil, nil, err
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// buildURL joins the base URL, path, and the non-nil query parameters.
func (c *Client) buildURL(path string, query map[string]any) (string, error) {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	if len(query) == 0 {
		return u.String(), nil
	}
	values := u.Query()
	for key, value := range query {
		if s, ok := queryValue(value); ok {
			values.Set(key, s)
		}
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// queryValue stringifies a scalar query parameter. Nil values, nil pointers,
// and empty strings are reported as absent.
func queryValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case *string:
		if val == nil || *val == "" {
			return "", false
		}
		return *val, true
	case *int:
		if val == nil {
			return "", false
		}
		return fmt.Sprint(*val), true
	case *bool:
		if val == nil {
			return "", false
		}
		return fmt.Sprint(*val), true
	default:
		return fmt.Sprint(val), true
	}
}

// parseErrorBody decodes an error response, falling back to an empty object
// when the body is missing or not JSON.
func parseErrorBody(body []byte) any {
	var parsed any
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &parsed) != nil {
		return map[string]any{}
	}
	return parsed
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("Correlation-Id"); id != "" {
		return id
	}
	return header.Get("X-Request-Id")
}
