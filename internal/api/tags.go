package api

import (
	"context"
	"fmt"
)

// TagList is one page of tags.
type TagList struct {
	Tags []Tag     `json:"tags"`
	Page *PageInfo `json:"page,omitempty"`
}

// List returns one page of tags. page <= 0 lets the API pick the first page.
func (s TagsService) List(ctx context.Context, page int) (*TagList, error) {
	result, err := s.listPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return &TagList{Tags: result.Items, Page: result.Page}, nil
}

// ListAll returns every tag.
func (s TagsService) ListAll(ctx context.Context, startPage int) ([]Tag, error) {
	return ListAll(ctx, startPage, s.listPage)
}

func (s TagsService) listPage(ctx context.Context, page int) (*Page[Tag], error) {
	return listPage[Tag](ctx, s, "/tags", "tags", map[string]any{"page": pageParam(page)})
}

// Get returns a single tag.
func (s TagsService) Get(ctx context.Context, id int) (*Tag, error) {
	var tag Tag
	if err := get(ctx, s, fmt.Sprintf("/tags/%d", id), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
