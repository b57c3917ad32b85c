package api

import (
	"context"
	"encoding/json"
)

// Page is one page of a list call, unwrapped from the API envelope.
type Page[T any] struct {
	Items []T
	Page  *PageInfo
}

// envelope is the API's paginated response shape.
type envelope struct {
	Embedded map[string]json.RawMessage `json:"_embedded"`
	Page     *PageInfo                  `json:"page"`
}

// listPage fetches one page and unwraps the named collection. A missing
// collection yields an empty, non-nil slice.
func listPage[T any](ctx context.Context, r Requester, path, key string, query map[string]any) (*Page[T], error) {
	var env envelope
	if err := get(ctx, r, path, query, &env); err != nil {
		return nil, err
	}
	items := []T{}
	if raw, ok := env.Embedded[key]; ok && len(raw) > 0 && string(raw) != "null" {
		if err := decodeJSON(raw, &items); err != nil {
			return nil, err
		}
	}
	return &Page[T]{Items: items, Page: env.Page}, nil
}

// PageFetcher fetches the given 1-indexed page.
type PageFetcher[T any] func(ctx context.Context, page int) (*Page[T], error)

// ListAll walks pages sequentially from startPage (1 when <= 0) until the
// reported page count is reached and returns the concatenated items. A
// missing or zero totalPages, or an empty page, ends the walk.
func ListAll[T any](ctx context.Context, startPage int, fetch PageFetcher[T]) ([]T, error) {
	if startPage <= 0 {
		startPage = 1
	}
	all := []T{}
	for page := startPage; ; page++ {
		result, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)

		info := result.Page
		if info == nil || info.TotalPages <= 0 || len(result.Items) == 0 {
			return all, nil
		}
		current := max(page, info.Number)
		if current >= info.TotalPages {
			return all, nil
		}
	}
}
