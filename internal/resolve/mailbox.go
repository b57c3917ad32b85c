package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/helpscout/helpscout-cli/internal/api"
)

// MailboxLister lists every mailbox on the account.
type MailboxLister interface {
	ListAll(ctx context.Context, startPage int) ([]api.Mailbox, error)
}

// MailboxID resolves a --mailbox value. Numeric input is used as the ID
// without a request; anything else is matched against mailbox names and
// slugs. An empty value resolves to 0.
func MailboxID(ctx context.Context, mailboxes MailboxLister, input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(input); err == nil {
		if id <= 0 {
			return 0, api.NewValidationError("Invalid mailbox ID: %q", input)
		}
		return id, nil
	}

	all, err := mailboxes.ListAll(ctx, 1)
	if err != nil {
		return 0, err
	}
	candidates := make([]Candidate, 0, len(all))
	for _, m := range all {
		if strings.EqualFold(m.Slug, input) {
			return m.ID, nil
		}
		candidates = append(candidates, Candidate{ID: m.ID, Name: m.Name})
	}

	id, err := Best(input, candidates)
	if err == nil {
		return id, nil
	}
	var ambiguous *AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return 0, api.NewValidationError("Mailbox %s", ambiguous.Error())
	case errors.Is(err, ErrNoCandidates):
		return 0, api.NewValidationError("No mailboxes found to match %q", input)
	default:
		return 0, api.NewValidationError("Mailbox %q not found", input)
	}
}
