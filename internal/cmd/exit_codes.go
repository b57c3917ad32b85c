package cmd

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/helpscout/helpscout-cli/internal/api"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitCodeForEnvelope(api.Classify(err), err)
}

// exitCodeForEnvelope picks the exit code for a classified failure.
func exitCodeForEnvelope(env api.ErrorEnvelope, err error) int {
	switch {
	case api.IsValidationError(err):
		return exitUsage
	case api.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return exitNetwork
	case api.IsConfigError(err):
		return exitAuth
	}

	if env.Error.Name == api.NameRateLimited {
		return exitRateLimited
	}
	status := env.Error.StatusCode
	switch {
	case status == http.StatusUnauthorized:
		return exitAuth
	case status == http.StatusForbidden:
		return exitForbidden
	case status == http.StatusNotFound:
		return exitNotFound
	case status == http.StatusTooManyRequests:
		return exitRateLimited
	case status >= 500 && status <= 599:
		return exitServer
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return exitUsage
	}
	return exitGeneric
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"accepts ",
		"requires at least",
		"required flag",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
