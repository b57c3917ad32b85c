// Package resolve turns mailbox names and slugs typed on the command line
// into Help Scout IDs.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxCandidates caps the suggestions listed in an AmbiguousError.
const maxCandidates = 5

// Candidate is a resource that can be picked by name.
type Candidate struct {
	ID   int
	Name string
}

// Match is a ranked candidate.
type Match struct {
	Candidate
	Score int
}

var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrNoCandidates = errors.New("nothing to match against")
)

// AmbiguousError reports a query whose best fuzzy matches tie.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		parts[i] = fmt.Sprintf("%d (%s)", m.ID, m.Name)
	}
	return fmt.Sprintf("%q is ambiguous, candidates: %s", e.Query, strings.Join(parts, ", "))
}

// NotFoundError reports a query that matched nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match for %q", e.Query)
}

// names adapts candidates to fuzzy.Source with lowercased names.
type names []Candidate

func (n names) String(i int) string { return strings.ToLower(n[i].Name) }
func (n names) Len() int            { return len(n) }

// Best returns the ID of the candidate named by query. A case-insensitive
// exact name wins outright; otherwise the top fuzzy match is used unless
// the runner-up scores the same.
func Best(query string, candidates []Candidate) (int, error) {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return 0, ErrEmptyQuery
	case len(candidates) == 0:
		return 0, ErrNoCandidates
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Name, query) {
			return c.ID, nil
		}
	}

	ranked := Rank(query, candidates, maxCandidates)
	switch {
	case len(ranked) == 0:
		return 0, &NotFoundError{Query: query}
	case len(ranked) > 1 && ranked[0].Score == ranked[1].Score:
		return 0, &AmbiguousError{Query: query, Matches: ranked}
	}
	return ranked[0].ID, nil
}

// Rank returns up to limit fuzzy matches for query, best first.
func Rank(query string, candidates []Candidate, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}
	found := fuzzy.FindFrom(query, names(candidates))
	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]Match, 0, len(found))
	for _, f := range found {
		out = append(out, Match{Candidate: candidates[f.Index], Score: f.Score})
	}
	return out
}
