package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// Secret store account names.
const (
	AccountAccessToken  = "access-token"
	AccountRefreshToken = "refresh-token"
	AccountAppID        = "app-id"
	AccountAppSecret    = "app-secret"
)

// Environment fallbacks for the app credentials.
const (
	EnvAppID     = "HELPSCOUT_APP_ID"
	EnvAppSecret = "HELPSCOUT_APP_SECRET"
)

// SecretStore is an account-name keyed secret map. Get returns "" with a nil
// error when the account has no value.
type SecretStore interface {
	Get(account string) (string, error)
	Set(account, value string) error
	Delete(account string) error
}

// TokenManager owns the current access token. The in-process copy is filled
// from the store on first use and replaced only by a completed refresh.
type TokenManager struct {
	Store    SecretStore
	TokenURL string
	HTTP     *http.Client

	mu      sync.Mutex
	current string
	group   singleflight.Group
}

// NewTokenManager creates a token manager for the given token endpoint.
func NewTokenManager(store SecretStore, tokenURL string, httpClient *http.Client) *TokenManager {
	return &TokenManager{Store: store, TokenURL: tokenURL, HTTP: httpClient}
}

// Credentials returns the app id and secret, preferring the store over the
// environment. Either value may be empty.
func (m *TokenManager) Credentials() (appID, appSecret string) {
	appID = m.storeValue(AccountAppID)
	if appID == "" {
		appID = strings.TrimSpace(os.Getenv(EnvAppID))
	}
	appSecret = m.storeValue(AccountAppSecret)
	if appSecret == "" {
		appSecret = strings.TrimSpace(os.Getenv(EnvAppSecret))
	}
	return appID, appSecret
}

// Configured reports whether both app credentials are available.
func (m *TokenManager) Configured() bool {
	id, secret := m.Credentials()
	return id != "" && secret != ""
}

// Token returns the current access token, loading it from the store or
// performing a grant exchange when none is known.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.current != "" {
		tok := m.current
		m.mu.Unlock()
		return tok, nil
	}
	m.mu.Unlock()

	if stored := m.storeValue(AccountAccessToken); stored != "" {
		m.mu.Lock()
		if m.current == "" {
			m.current = stored
		}
		tok := m.current
		m.mu.Unlock()
		return tok, nil
	}
	return m.Refresh(ctx)
}

// StoredToken returns the persisted access token without any network call.
func (m *TokenManager) StoredToken() string {
	return m.storeValue(AccountAccessToken)
}

// Invalidate forgets the token if it is still the current one. The stored
// copy is removed as well so a later process does not reuse it.
func (m *TokenManager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != "" && m.current != token {
		return
	}
	m.current = ""
	if m.Store != nil {
		if err := m.Store.Delete(AccountAccessToken); err != nil {
			slog.Debug("failed to delete stored access token", "error", err)
		}
	}
}

// Reauthenticate replaces a token the API rejected. When another caller has
// already replaced it, the newer token is returned without another exchange.
func (m *TokenManager) Reauthenticate(ctx context.Context, rejected string) (string, error) {
	m.mu.Lock()
	if m.current != "" && m.current != rejected {
		tok := m.current
		m.mu.Unlock()
		return tok, nil
	}
	m.mu.Unlock()
	m.Invalidate(rejected)
	return m.Refresh(ctx)
}

// Refresh performs a grant exchange. Concurrent callers share one exchange.
func (m *TokenManager) Refresh(ctx context.Context) (string, error) {
	v, err, _ := m.group.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Clear forgets the in-process token without touching the store.
func (m *TokenManager) Clear() {
	m.mu.Lock()
	m.current = ""
	m.mu.Unlock()
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	appID, appSecret := m.Credentials()
	if appID == "" || appSecret == "" {
		return "", errNotConfigured()
	}
	if m.HTTP != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.HTTP)
	}

	if refreshToken := m.storeValue(AccountRefreshToken); refreshToken != "" {
		cfg := &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  m.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
		if err == nil {
			return m.accept(tok)
		}
		slog.Warn("refresh token failed, using client credentials", "reason", Redact(err.Error()))
	}

	cc := &clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		TokenURL:     m.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tok, err := cc.Token(ctx)
	if err != nil {
		return "", tokenError(err)
	}
	return m.accept(tok)
}

// accept makes a freshly issued token current and mirrors it to the store.
// A failed store write only costs persistence across runs.
func (m *TokenManager) accept(tok *oauth2.Token) (string, error) {
	if tok == nil || tok.AccessToken == "" {
		return "", &AuthError{Reason: "token endpoint returned no access token", StatusCode: http.StatusUnauthorized}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = tok.AccessToken
	if m.Store != nil {
		if err := m.Store.Set(AccountAccessToken, tok.AccessToken); err != nil {
			slog.Warn("could not save the access token to the secret store", "error", Redact(err.Error()))
		}
		if tok.RefreshToken != "" {
			if err := m.Store.Set(AccountRefreshToken, tok.RefreshToken); err != nil {
				slog.Warn("could not save the refresh token to the secret store", "error", Redact(err.Error()))
			}
		}
	}
	return tok.AccessToken, nil
}

func (m *TokenManager) storeValue(account string) string {
	if m.Store == nil {
		return ""
	}
	v, err := m.Store.Get(account)
	if err != nil {
		slog.Debug("secret store read failed", "account", account, "error", err)
		return ""
	}
	return strings.TrimSpace(v)
}

// tokenError separates a transport failure from a rejected or malformed
// grant response.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		authErr := &AuthError{Reason: "OAuth token request failed", Body: parseErrorBody(re.Body)}
		if re.Response != nil {
			authErr.StatusCode = re.Response.StatusCode
		}
		if re.ErrorDescription != "" {
			authErr.Reason = re.ErrorDescription
		}
		return authErr
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Op: "Network request failed during authentication", Err: err}
	}
	return &AuthError{Reason: "invalid token response: " + err.Error(), StatusCode: http.StatusUnauthorized}
}

// decodeJSON unmarshals a raw response into out.
func decodeJSON(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
