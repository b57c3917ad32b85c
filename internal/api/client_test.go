package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// memStore is an in-memory SecretStore.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemStore(kv ...string) *memStore {
	s := &memStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memStore) Get(account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[account], nil
}

func (s *memStore) Set(account, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[account] = value
	return nil
}

func (s *memStore) Delete(account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, account)
	return nil
}

func configuredStore(accessToken string) *memStore {
	return newMemStore(
		AccountAppID, "app-id",
		AccountAppSecret, "app-secret",
		AccountAccessToken, accessToken,
	)
}

// tokenHandler issues sequential tokens ("fresh-1", "fresh-2", ...).
func tokenHandler(t *testing.T, issued *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		n := atomic.AddInt32(issued, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"fresh-`+string(rune('0'+n))+`","token_type":"bearer","expires_in":7200}`)
	}
}

func TestNew(t *testing.T) {
	t.Setenv("HELPSCOUT_BASE_URL", "https://example.com/v2/")
	client := New(newMemStore())

	if client.BaseURL != "https://example.com/v2" {
		t.Errorf("Expected BaseURL https://example.com/v2, got %s", client.BaseURL)
	}
	if client.Tokens.TokenURL != "https://example.com/v2/oauth2/token" {
		t.Errorf("unexpected token URL %s", client.Tokens.TokenURL)
	}
	if client.HTTP == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestBuildURLOmitsUnsetQueryValues(t *testing.T) {
	client := newTestClient("https://example.com/v2", newMemStore())

	got, err := client.buildURL("conversations", map[string]any{
		"mailbox": "12",
		"status":  "",
		"tag":     nil,
		"page":    2,
		"draft":   false,
	})
	if err != nil {
		t.Fatalf("buildURL: %v", err)
	}
	if got != "https://example.com/v2/conversations?draft=false&mailbox=12&page=2" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestDispatchSendsBearerAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer stored-token" {
			t.Errorf("unexpected Authorization %q", got)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "hello" {
			t.Errorf("Expected body text=hello, got %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("stored-token"))
	resp, err := client.Dispatch(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/conversations/1/notes",
		Body:   map[string]string{"text": "hello"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(resp.Body) != `{"id": 1}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestDispatchNoContentYieldsEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("tok"))
	resp, err := client.Dispatch(context.Background(), Request{Method: http.MethodDelete, Path: "/customers/1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(resp.Body) != `{}` {
		t.Errorf("expected {}, got %s", resp.Body)
	}
}

func TestDispatchRetriesOnceOn401WithRefreshedToken(t *testing.T) {
	var apiCalls, issued int32
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", tokenHandler(t, &issued))
	mux.HandleFunc("/mailboxes", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		seen = append(seen, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := configuredStore("stale")
	client := newTestClient(server.URL, store)
	if _, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/mailboxes"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if apiCalls != 2 || issued != 1 {
		t.Fatalf("expected 2 API calls and 1 token exchange, got %d and %d", apiCalls, issued)
	}
	if seen[1] != "Bearer fresh-1" {
		t.Errorf("retry used %q", seen[1])
	}
	if v, _ := store.Get(AccountAccessToken); v != "fresh-1" {
		t.Errorf("stored access token = %q", v)
	}
}

func TestDispatchSecond401Propagates(t *testing.T) {
	var apiCalls, issued int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", tokenHandler(t, &issued))
	mux.HandleFunc("/tags", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"bad token"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("stale"))
	_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/tags"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiCalls != 2 || issued != 1 {
		t.Errorf("expected 2 API calls and 1 token exchange, got %d and %d", apiCalls, issued)
	}
}

func TestDispatchNoRetryOn401WhenDisabled(t *testing.T) {
	var apiCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("tok"))
	_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/tags", NoRetryOn401: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if apiCalls != 1 {
		t.Errorf("expected 1 call, got %d", apiCalls)
	}
}

func TestDispatchRetriesOnceOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("tok"))
	var waits []time.Duration
	client.SetSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	if _, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if len(waits) != 1 || waits[0] != 3*time.Second {
		t.Errorf("unexpected waits %v", waits)
	}
}

func TestDispatchSecond429Propagates(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "999")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"too_many_requests"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("tok"))
	var waits []time.Duration
	client.SetSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 APIError, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if len(waits) != 1 || waits[0] != 120*time.Second {
		t.Errorf("expected one clamped wait of 120s, got %v", waits)
	}
}

func TestDispatch429WithoutHeaderWaitsDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, configuredStore("tok"))
	var waited time.Duration
	client.SetSleep(func(_ context.Context, d time.Duration) error {
		waited = d
		return nil
	})
	if _, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if waited != 60*time.Second {
		t.Errorf("waited %v, want 60s", waited)
	}
}

func TestDispatchErrorBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody any
	}{
		{"json body", `{"message":"nope"}`, map[string]any{"message": "nope"}},
		{"html body", `<html>oops</html>`, map[string]any{}},
		{"empty body", ``, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Correlation-Id", "corr-1")
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(server.URL, configuredStore("tok"))
			_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/customers/9"})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.RequestID != "corr-1" {
				t.Errorf("RequestID = %q", apiErr.RequestID)
			}
			got, _ := json.Marshal(apiErr.Body)
			want, _ := json.Marshal(tt.wantBody)
			if string(got) != string(want) {
				t.Errorf("Body = %s, want %s", got, want)
			}
			if !IsNotFoundError(err) {
				t.Error("expected IsNotFoundError")
			}
		})
	}
}

func TestDispatchNetworkErrorIsNotRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, configuredStore("tok"))
	_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if !IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %T (%v)", err, err)
	}
	if !strings.HasPrefix(err.Error(), "Network request failed") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDispatchMissingCredentialsFailsBeforeNetwork(t *testing.T) {
	t.Setenv(EnvAppID, "")
	t.Setenv(EnvAppSecret, "")
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL, newMemStore())
	_, err := client.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if !IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %T (%v)", err, err)
	}
	if calls != 0 {
		t.Errorf("expected no network calls, got %d", calls)
	}
}
