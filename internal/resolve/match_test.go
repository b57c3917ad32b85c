package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBest(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Name: "Support"},
		{ID: 2, Name: "Sales Team"},
		{ID: 3, Name: "Sales"},
	}

	tests := []struct {
		query string
		want  int
	}{
		{"Support", 1},
		{"SUPPORT", 1},
		{"supp", 1},
		{"sales", 3},
		{"sales tm", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			id, err := Best(tt.query, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestBestErrors(t *testing.T) {
	_, err := Best("  ", []Candidate{{ID: 1, Name: "Support"}})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = Best("support", nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = Best("billing", []Candidate{{ID: 1, Name: "Support"}})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "billing", notFound.Query)

	_, err = Best("support", []Candidate{{ID: 1, Name: "Support US"}, {ID: 2, Name: "Support EU"}})
	var ambiguous *AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.Matches, 2)
	assert.Contains(t, err.Error(), "1 (Support US)")
	assert.Contains(t, err.Error(), "2 (Support EU)")
}

func TestRank(t *testing.T) {
	candidates := []Candidate{{ID: 1, Name: "Support"}, {ID: 2, Name: "Escalations"}, {ID: 3, Name: "Billing"}}

	ranked := Rank("s", candidates, 1)
	require.Len(t, ranked, 1)

	assert.Empty(t, Rank("", candidates, 5))
	assert.Empty(t, Rank("s", candidates, 0))
	assert.Empty(t, Rank("qqq", candidates, 5))
}
