package api

import "regexp"

// MaxErrorDetailLength bounds any error text shown to the user.
const MaxErrorDetailLength = 500

const redactedMarker = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Bearer\s+[\w\-._~+/]+=*`),
	regexp.MustCompile(`(?i)token[=:]\s*[\w\-._~+/]+=*`),
	regexp.MustCompile(`(?i)client[_-]?secret[=:]\s*[\w\-._~+/]+=*`),
	regexp.MustCompile(`(?i)authorization:\s*bearer\s+[\w\-._~+/]+=*`),
}

// Redact replaces bearer tokens and secrets in message with a marker and
// truncates the result to MaxErrorDetailLength characters plus "...".
func Redact(message string) string {
	sanitized := message
	for _, pattern := range sensitivePatterns {
		sanitized = pattern.ReplaceAllString(sanitized, redactedMarker)
	}
	runes := []rune(sanitized)
	if len(runes) > MaxErrorDetailLength {
		return string(runes[:MaxErrorDetailLength]) + "..."
	}
	return sanitized
}
