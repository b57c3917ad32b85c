// Package validation checks user-supplied values before they reach the API.
//
// Base URL checks reject schemes other than http(s), plain http to anything
// but a loopback host, and cloud metadata endpoints. Hosts are not resolved,
// so validation never touches the network.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MaxURLLength is the longest accepted URL.
const MaxURLLength = 2048

var metadataHosts = []string{
	"169.254.169.254",
	"fd00:ec2::254",
	"metadata.google.internal",
	"metadata.goog",
	"metadata.azure.com",
}

// BaseURL validates an API base URL override such as HELPSCOUT_BASE_URL.
func BaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(raw) > MaxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if u.User != nil {
		return fmt.Errorf("URL must not contain credentials")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("URL must not contain a query or fragment")
	}
	if isMetadataHost(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if u.Scheme == "http" && !IsLoopback(host) {
		return fmt.Errorf("plain http is only allowed for localhost, use https")
	}
	return nil
}

// IsLoopback reports whether host names the local machine.
func IsLoopback(host string) bool {
	host = strings.ToLower(strings.Trim(host, "[]"))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func isMetadataHost(host string) bool {
	host = strings.ToLower(strings.Trim(host, "[]"))
	for _, m := range metadataHosts {
		if host == m {
			return true
		}
	}
	return false
}
