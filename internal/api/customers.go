package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ListCustomersOptions filters a customer list call. Query is the API's
// advanced search expression.
type ListCustomersOptions struct {
	Mailbox       string
	FirstName     string
	LastName      string
	ModifiedSince string
	Query         string
	SortField     string
	SortOrder     string
	Page          int
}

func (o ListCustomersOptions) query(page int) map[string]any {
	return map[string]any{
		"mailbox":       o.Mailbox,
		"firstName":     o.FirstName,
		"lastName":      o.LastName,
		"modifiedSince": o.ModifiedSince,
		"query":         o.Query,
		"sortField":     o.SortField,
		"sortOrder":     o.SortOrder,
		"page":          pageParam(page),
	}
}

// CustomerList is one page of customers.
type CustomerList struct {
	Customers []Customer `json:"customers"`
	Page      *PageInfo  `json:"page,omitempty"`
}

// CreateCustomerRequest is the body of a customer create call.
type CreateCustomerRequest struct {
	FirstName string         `json:"firstName,omitempty"`
	LastName  string         `json:"lastName,omitempty"`
	Emails    []ContactValue `json:"emails,omitempty"`
	Phones    []ContactValue `json:"phones,omitempty"`
}

// Empty reports whether no field is set.
func (r CreateCustomerRequest) Empty() bool {
	return r.FirstName == "" && r.LastName == "" && len(r.Emails) == 0 && len(r.Phones) == 0
}

// UpdateCustomerRequest is a partial customer update. Unset fields are not
// sent.
type UpdateCustomerRequest struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
	Location     string `json:"location,omitempty"`
	Organization string `json:"organization,omitempty"`
	Background   string `json:"background,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateCustomerRequest) Empty() bool {
	return r == UpdateCustomerRequest{}
}

// List returns one page of customers.
func (s CustomersService) List(ctx context.Context, opts ListCustomersOptions) (*CustomerList, error) {
	page, err := s.listPage(ctx, opts, opts.Page)
	if err != nil {
		return nil, err
	}
	return &CustomerList{Customers: page.Items, Page: page.Page}, nil
}

// ListAll returns every customer matching opts.
func (s CustomersService) ListAll(ctx context.Context, opts ListCustomersOptions) ([]Customer, error) {
	return ListAll(ctx, opts.Page, func(ctx context.Context, page int) (*Page[Customer], error) {
		return s.listPage(ctx, opts, page)
	})
}

func (s CustomersService) listPage(ctx context.Context, opts ListCustomersOptions, page int) (*Page[Customer], error) {
	return listPage[Customer](ctx, s, "/customers", "customers", opts.query(page))
}

// Get returns a single customer.
func (s CustomersService) Get(ctx context.Context, id int) (*Customer, error) {
	var customer Customer
	if err := get(ctx, s, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create creates a customer and returns the new id when the API reports it
// in the Resource-ID header (0 otherwise).
func (s CustomersService) Create(ctx context.Context, req CreateCustomerRequest) (int, error) {
	resp, err := do(ctx, s, http.MethodPost, "/customers", nil, req, nil)
	if err != nil {
		return 0, err
	}
	if resp.Header == nil {
		return 0, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Resource-ID")))
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// Update changes the set fields of a customer.
func (s CustomersService) Update(ctx context.Context, id int, req UpdateCustomerRequest) error {
	_, err := do(ctx, s, http.MethodPut, fmt.Sprintf("/customers/%d", id), nil, req, nil)
	return err
}

// Delete removes a customer.
func (s CustomersService) Delete(ctx context.Context, id int) error {
	_, err := do(ctx, s, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, nil)
	return err
}
