package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/update"
)

func TestUnknownCommandSuggestion(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"conversatons"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `Did you mean "conversations"?`)
}

func TestUnknownFlagSuggestion(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"tags", "list", "--pag", "2"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `Did you mean "--page"?`)
	assert.Contains(t, stderr, `helpscout tags list --help`)
}

func TestMissingArgumentIsUsageError(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"conversations", "view"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "accepts 1 arg(s)")
	assert.Equal(t, 0, handler.total())
}

func TestNegativeTimeoutRejected(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	out, err := runCLI(t, "tags", "list", "--timeout=-1s")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Equal(t, "--timeout must be >= 0", decodeEnvelope(t, out).Error.Detail)
}

func TestNegativePageRejected(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	_, err := runCLI(t, "mailboxes", "list", "--page=-1")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Equal(t, 0, handler.total())
}

func TestNotConfiguredIsAuthError(t *testing.T) {
	handler := newRouteHandler()
	env := setupTestEnvWithHandler(t, handler)
	for _, account := range []string{api.AccountAppID, api.AccountAppSecret, api.AccountAccessToken} {
		require.NoError(t, env.ring.Remove(account))
	}

	out, err := runCLI(t, "tags", "list")
	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))

	envelope := decodeEnvelope(t, out)
	assert.Equal(t, api.NameCLIError, envelope.Error.Name)
	assert.Equal(t, api.NotConfiguredMessage, envelope.Error.Detail)
	assert.Equal(t, 0, handler.total())
}

func TestVersionCommand(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev"}`, out)

	checkForUpdate = func(*cobra.Command) *update.Info {
		return &update.Info{Latest: "v1.2.0", UpdateAvailable: true, URL: "https://example.com/r"}
	}
	out, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev","update":{"latest":"v1.2.0","updateAvailable":true,"url":"https://example.com/r"}}`, out)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"validation", api.NewValidationError("bad"), exitUsage},
		{"unknown flag", errors.New("unknown flag: --nope"), exitUsage},
		{"config", &api.ConfigError{Message: api.NotConfiguredMessage}, exitAuth},
		{"unauthorized", &api.APIError{StatusCode: 401}, exitAuth},
		{"forbidden", &api.APIError{StatusCode: 403}, exitForbidden},
		{"not found", &api.APIError{StatusCode: 404}, exitNotFound},
		{"conflict", &api.APIError{StatusCode: 409}, exitUsage},
		{"rate limited", &api.APIError{StatusCode: 429}, exitRateLimited},
		{"server", &api.APIError{StatusCode: 503}, exitServer},
		{"network", &api.NetworkError{Op: "dial", Err: errors.New("refused")}, exitNetwork},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), exitNetwork},
		{"other", errors.New("boom"), exitGeneric},
		{"handled", &handledError{err: errors.New("x"), exitCode: exitNotFound}, exitNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestSuggestions(t *testing.T) {
	commands := []string{"conversations", "customers", "tags", "workflows", "mailboxes"}
	assert.Equal(t, "customers", suggestCommand("custmers", commands))
	assert.Equal(t, "tags", suggestCommand("TAGZ", commands))
	assert.Empty(t, suggestCommand("zzzzzzzz", commands))

	flagNames := []string{"--page", "--all", "--mailbox"}
	assert.Equal(t, "--mailbox", suggestFlag("--mailbx", flagNames))
	assert.Empty(t, suggestFlag("--", flagNames))

	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 4, levenshtein("", "tags"))
}

func TestInvalidBaseURLRejected(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)
	t.Setenv(api.EnvBaseURL, "http://api.example.com")

	out, err := runCLI(t, "tags", "list")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, decodeEnvelope(t, out).Error.Detail, "Invalid HELPSCOUT_BASE_URL: plain http")
	assert.Equal(t, 0, handler.total())
}
