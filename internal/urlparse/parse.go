// Package urlparse extracts resource identifiers from Help Scout web app
// URLs so they can be pasted wherever an ID is expected.
package urlparse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resource types recognized in app URLs.
const (
	Conversation = "conversation"
	Customer     = "customer"
	Mailbox      = "mailbox"
)

// ParsedURL is a Help Scout app URL reduced to the resource it names.
type ParsedURL struct {
	ResourceType string
	// ID is the numeric resource ID; 0 for mailbox URLs, which carry a slug.
	ID int
	// Number is the mailbox-scoped conversation number when present.
	Number int
	Slug   string
}

// path segment -> resource type
var segments = map[string]string{
	"conversation":  Conversation,
	"conversations": Conversation,
	"customer":      Customer,
	"customers":     Customer,
	"mailbox":       Mailbox,
	"mailboxes":     Mailbox,
}

// IsURL reports whether s looks like an http(s) URL rather than a bare ID
// or name.
func IsURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// Parse extracts the resource from URLs such as
//
//	https://secure.helpscout.net/conversation/2483654381/1234/?folderId=1
//	https://secure.helpscout.net/customer/584193/
//	https://secure.helpscout.net/mailbox/a1b2c3d4e5f6/
func Parse(raw string) (*ParsedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL must contain a hostname")
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		typ, ok := segments[strings.ToLower(p)]
		if !ok || i+1 >= len(parts) {
			continue
		}
		next := parts[i+1]
		if typ == Mailbox {
			return &ParsedURL{ResourceType: typ, Slug: next}, nil
		}
		id, err := strconv.Atoi(next)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid %s ID %q in URL", typ, next)
		}
		parsed := &ParsedURL{ResourceType: typ, ID: id}
		if typ == Conversation && i+2 < len(parts) {
			if n, err := strconv.Atoi(parts[i+2]); err == nil && n > 0 {
				parsed.Number = n
			}
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("URL does not point to a conversation, customer or mailbox: %s", raw)
}
