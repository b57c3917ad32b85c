package outfmt

import (
	"github.com/helpscout/helpscout-cli/internal/filter"
)

// ApplyQuery runs a jq expression over a processed document and returns the
// plain Go result. jq sees objects as maps, so key order in the result is
// jq's, not the API's.
func ApplyQuery(doc Value, query string) (any, error) {
	if query == "" {
		return doc.ToAny(), nil
	}
	return filter.Apply(doc.ToAny(), query)
}
