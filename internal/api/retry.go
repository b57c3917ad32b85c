package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default retry configuration values
const (
	DefaultRateLimitWait    = 60 * time.Second
	DefaultMaxRateLimitWait = 120 * time.Second
)

// RetryConfig holds the rate-limit wait policy. The number of retries is not
// configurable: each failure class is retried at most once per call.
type RetryConfig struct {
	DefaultWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns a RetryConfig populated from environment variables
// with fallback to default values.
//
// Environment variables:
//   - HELPSCOUT_RATE_LIMIT_WAIT: wait used when Retry-After is missing (default: "60s")
//   - HELPSCOUT_MAX_RATE_LIMIT_WAIT: upper bound on any rate-limit wait (default: "120s")
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		DefaultWait: getEnvDuration("HELPSCOUT_RATE_LIMIT_WAIT", DefaultRateLimitWait),
		MaxWait:     getEnvDuration("HELPSCOUT_MAX_RATE_LIMIT_WAIT", DefaultMaxRateLimitWait),
	}
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// rateLimitWait returns min(Retry-After, MaxWait), or DefaultWait when the
// header is missing or unparseable.
func (r RetryConfig) rateLimitWait(h http.Header) time.Duration {
	wait, ok := retryAfterDuration(h)
	if !ok {
		wait = r.DefaultWait
		if wait <= 0 {
			wait = DefaultRateLimitWait
		}
	}
	maxWait := r.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxRateLimitWait
	}
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

// sleepWithContext waits for the duration or returns early on context cancellation.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfterDuration parses Retry-After header values (seconds or HTTP date).
func retryAfterDuration(h http.Header) (time.Duration, bool) {
	if h == nil {
		return 0, false
	}
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
