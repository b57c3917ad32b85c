// Package dates parses the date expressions accepted by filter flags and
// builds Help Scout search query ranges from them.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/helpscout/helpscout-cli/internal/api"
)

// Layout is the timestamp form the search API expects.
const Layout = "2006-01-02T15:04:05Z"

// Matches: "2h ago", "30m ago", "1d ago", "2w ago", "1mo ago"
var relativeAgoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)\s*ago$`)

// ParseDateTime parses a human-friendly date expression relative to now and
// returns it as a UTC timestamp in Layout.
// Supports: RFC3339, "2006-01-02", "today", "yesterday", "tomorrow",
// weekday names (most recent occurrence, "last monday" skips today), and
// "2d ago" style offsets.
func ParseDateTime(input string, now time.Time) (string, error) {
	t, err := parse(input, now.UTC())
	if err != nil {
		return "", err
	}
	return t.UTC().Format(Layout), nil
}

func parse(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, api.NewValidationError("Invalid date: %s", s)
	}

	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	case "today":
		return startOfDay(now), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if matches := relativeAgoRegex.FindStringSubmatch(input); len(matches) == 3 {
		value, err := strconv.Atoi(matches[1])
		if err != nil || value < 1 {
			return time.Time{}, api.NewValidationError("Invalid date: %s", raw)
		}
		return applyRelative(now, value, matches[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err == nil {
		return t, nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, api.NewValidationError("Invalid date: %s", raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	input := strings.TrimSpace(expr)
	last := false
	if rest, ok := strings.CutPrefix(input, "last "); ok {
		last = true
		input = strings.TrimSpace(rest)
	}

	weekday, ok := weekdayMap[input]
	if !ok {
		return time.Time{}, false
	}

	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if last && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

var weekdayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"weds":      time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

func applyRelative(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -value, 0)
	case "w":
		return now.AddDate(0, 0, -7*value)
	case "d":
		return now.AddDate(0, 0, -value)
	case "h":
		return now.Add(-time.Duration(value) * time.Hour)
	default:
		return now.Add(-time.Duration(value) * time.Minute)
	}
}

// Ranges holds the raw date flag values for a search.
type Ranges struct {
	CreatedSince   string
	CreatedBefore  string
	ModifiedSince  string
	ModifiedBefore string
}

// Empty reports whether no date flag was given.
func (r Ranges) Empty() bool {
	return r == Ranges{}
}

// BuildQuery combines base with the date ranges into a search query such
// as `(status:open AND createdAt:[2024-01-01T00:00:00Z TO *])`. Open range
// ends are written as *. With no ranges, base is returned unchanged.
func BuildQuery(r Ranges, base string, now time.Time) (string, error) {
	base = strings.TrimSpace(base)
	if r.Empty() {
		return base, nil
	}

	var parts []string
	if base != "" {
		parts = append(parts, base)
	}
	for _, field := range []struct {
		name          string
		since, before string
	}{
		{"createdAt", r.CreatedSince, r.CreatedBefore},
		{"modifiedAt", r.ModifiedSince, r.ModifiedBefore},
	} {
		if field.since == "" && field.before == "" {
			continue
		}
		from, err := bound(field.since, now)
		if err != nil {
			return "", err
		}
		to, err := bound(field.before, now)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s:[%s TO %s]", field.name, from, to))
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func bound(value string, now time.Time) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "*", nil
	}
	return ParseDateTime(value, now)
}
