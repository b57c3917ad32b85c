// Test utilities for the helpscout CLI commands.
//
// Commands run against an httptest server that stands in for the Help Scout
// API. setupTestEnvWithHandler points HELPSCOUT_BASE_URL at it, installs an
// in-memory keyring holding app credentials and an access token, and moves
// the preferences file into t.TempDir().
//
//	handler := newRouteHandler().
//	    On("GET", "/tags", jsonResponse(200, `{"_embedded":{"tags":[]}}`))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    err := Execute(context.Background(), []string{"tags", "list"})
//	    require.NoError(t, err)
//	})
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/config"
	"github.com/helpscout/helpscout-cli/internal/update"
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

// testEnv gives tests access to the fake API server and the keyring.
type testEnv struct {
	server *httptest.Server
	ring   keyring.Keyring
	prefs  string
}

// secret reads an item from the test keyring, "" when absent.
func (e *testEnv) secret(t *testing.T, account string) string {
	t.Helper()
	item, err := e.ring.Get(account)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

// setupTestEnvWithHandler starts a fake API with handler and points the CLI
// at it. The keyring starts with app credentials and the access token
// "test-token".
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("HELPSCOUT_BASE_URL", server.URL)
	t.Setenv(api.EnvAppID, "")
	t.Setenv(api.EnvAppSecret, "")
	t.Setenv(config.EnvMailboxID, "")
	t.Setenv(update.EnvDisable, "1")

	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: api.AccountAppID, Data: []byte("app-id")},
		{Key: api.AccountAppSecret, Data: []byte("app-secret")},
		{Key: api.AccountAccessToken, Data: []byte("test-token")},
	})
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))

	prefs := filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(config.SetPreferencesPath(prefs))

	origClient := newClient
	newClient = func() *api.Client {
		c := origClient()
		c.SetSleep(func(context.Context, time.Duration) error { return nil })
		return c
	}
	t.Cleanup(func() { newClient = origClient })

	origNow := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = origNow })

	origCheck := checkForUpdate
	checkForUpdate = func(*cobra.Command) *update.Info { return nil }
	t.Cleanup(func() { checkForUpdate = origCheck })

	return &testEnv{server: server, ring: ring, prefs: prefs}
}

// jsonResponse creates an http.HandlerFunc that returns a JSON response with the given status and body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler is a test HTTP handler that routes requests based on method and path.
// Routes are matched by exact "METHOD PATH" combination. If no route matches,
// it returns 404 Not Found. Every request is recorded.
type routeHandler struct {
	routes map[string]http.HandlerFunc

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
	Body   []byte
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the given HTTP method and path.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

// ServeHTTP implements http.Handler.
func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	rh.mu.Lock()
	rh.requests = append(rh.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	rh.mu.Unlock()

	if handler, ok := rh.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// requestsTo returns the recorded requests for a method and path.
func (rh *routeHandler) requestsTo(method, path string) []recordedRequest {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	var out []recordedRequest
	for _, r := range rh.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// total returns the number of requests served.
func (rh *routeHandler) total() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return len(rh.requests)
}

// runCLI executes the CLI with args and returns stdout and the error.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var err error
	out := captureStdout(t, func() {
		err = Execute(context.Background(), args)
	})
	return out, err
}

// decodeJSON decodes command output into a generic map.
func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), "output: %s", out)
	return m
}

// decodeEnvelope decodes an error envelope from command output.
func decodeEnvelope(t *testing.T, out string) api.ErrorEnvelope {
	t.Helper()
	var env api.ErrorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env
}
