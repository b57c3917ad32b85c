package api

import (
	"context"
	"fmt"
)

// MailboxList is one page of mailboxes.
type MailboxList struct {
	Mailboxes []Mailbox `json:"mailboxes"`
	Page      *PageInfo `json:"page,omitempty"`
}

// List returns one page of mailboxes.
func (s MailboxesService) List(ctx context.Context, page int) (*MailboxList, error) {
	result, err := s.listPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return &MailboxList{Mailboxes: result.Items, Page: result.Page}, nil
}

// ListAll returns every mailbox.
func (s MailboxesService) ListAll(ctx context.Context, startPage int) ([]Mailbox, error) {
	return ListAll(ctx, startPage, s.listPage)
}

func (s MailboxesService) listPage(ctx context.Context, page int) (*Page[Mailbox], error) {
	return listPage[Mailbox](ctx, s, "/mailboxes", "mailboxes", map[string]any{"page": pageParam(page)})
}

// Get returns a single mailbox.
func (s MailboxesService) Get(ctx context.Context, id int) (*Mailbox, error) {
	var mailbox Mailbox
	if err := get(ctx, s, fmt.Sprintf("/mailboxes/%d", id), nil, &mailbox); err != nil {
		return nil, err
	}
	return &mailbox, nil
}
