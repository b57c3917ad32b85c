package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpscout/helpscout-cli/internal/api"
)

func TestParseDateTime(t *testing.T) {
	now := time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC) // Wednesday

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rfc3339", "2026-01-27T10:00:00Z", "2026-01-27T10:00:00Z"},
		{"rfc3339 offset", "2026-01-27T10:00:00+02:00", "2026-01-27T08:00:00Z"},
		{"fractional seconds", "2026-01-27T10:00:00.123Z", "2026-01-27T10:00:00Z"},
		{"date only", "2026-01-27", "2026-01-27T00:00:00Z"},
		{"today", "today", "2026-01-28T00:00:00Z"},
		{"yesterday", "Yesterday", "2026-01-27T00:00:00Z"},
		{"tomorrow", "tomorrow", "2026-01-29T00:00:00Z"},
		{"weekday", "monday", "2026-01-26T00:00:00Z"},
		{"same weekday", "wed", "2026-01-28T00:00:00Z"},
		{"last weekday", "last wednesday", "2026-01-21T00:00:00Z"},
		{"hours ago", "2h ago", "2026-01-28T13:04:05Z"},
		{"days ago", "3d ago", "2026-01-25T15:04:05Z"},
		{"weeks ago", "2w ago", "2026-01-14T15:04:05Z"},
		{"months ago", "1mo ago", "2025-12-28T15:04:05Z"},
		{"minutes ago", "30m ago", "2026-01-28T14:34:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTimeInvalid(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "0d ago", "2026-13-40"} {
		_, err := ParseDateTime(input, time.Now())
		require.Error(t, err, input)
		assert.True(t, api.IsValidationError(err), "%q should be a validation error", input)
	}

	_, err := ParseDateTime("soon", time.Now())
	assert.EqualError(t, err, "Invalid date: soon")
}

func TestBuildQuery(t *testing.T) {
	now := time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC)

	got, err := BuildQuery(Ranges{}, " email:ada@example.test ", now)
	require.NoError(t, err)
	assert.Equal(t, "email:ada@example.test", got)

	got, err = BuildQuery(Ranges{CreatedSince: "2026-01-01", CreatedBefore: "2026-01-15"}, "", now)
	require.NoError(t, err)
	assert.Equal(t, "(createdAt:[2026-01-01T00:00:00Z TO 2026-01-15T00:00:00Z])", got)

	got, err = BuildQuery(Ranges{CreatedSince: "2026-01-01", ModifiedSince: "yesterday"}, "status:active", now)
	require.NoError(t, err)
	assert.Equal(t, "(status:active AND createdAt:[2026-01-01T00:00:00Z TO *] AND modifiedAt:[2026-01-27T00:00:00Z TO *])", got)

	got, err = BuildQuery(Ranges{ModifiedBefore: "2026-01-10"}, "", now)
	require.NoError(t, err)
	assert.Equal(t, "(modifiedAt:[* TO 2026-01-10T00:00:00Z])", got)

	_, err = BuildQuery(Ranges{CreatedSince: "nope"}, "", now)
	assert.True(t, api.IsValidationError(err))
}
