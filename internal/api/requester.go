package api

import (
	"context"
	"net/http"
)

// Requester is the request surface resource helpers depend on. Tests can
// substitute a stub that records descriptors instead of sending them.
type Requester interface {
	Dispatch(ctx context.Context, req Request) (*Response, error)
}

// do dispatches a request and decodes the response into out when non-nil.
func do(ctx context.Context, r Requester, method, path string, query map[string]any, body any, out any) (*Response, error) {
	resp, err := r.Dispatch(ctx, Request{Method: method, Path: path, Query: query, Body: body})
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := decodeJSON(resp.Body, out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func get(ctx context.Context, r Requester, path string, query map[string]any, out any) error {
	_, err := do(ctx, r, http.MethodGet, path, query, nil, out)
	return err
}
