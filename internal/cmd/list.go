package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/config"
	"github.com/helpscout/helpscout-cli/internal/resolve"
	"github.com/helpscout/helpscout-cli/internal/urlparse"
)

// nowFunc is the clock used for relative date flags.
var nowFunc = time.Now

// pageFlags are the pagination flags shared by list commands.
type pageFlags struct {
	Page int
	All  bool
}

func addPageFlags(cmd *cobra.Command, p *pageFlags, allUsage string) {
	cmd.Flags().IntVar(&p.Page, "page", 0, "Page number (1-based)")
	cmd.Flags().BoolVar(&p.All, "all", false, allUsage)
}

func (p pageFlags) validate() error {
	if p.Page < 0 {
		return api.NewValidationError("--page must be >= 1")
	}
	return nil
}

// collection is the output shape of a list --all call.
func collection(key string, items any) map[string]any {
	return map[string]any{key: items}
}

// mailboxInput reduces a pasted mailbox URL to its slug.
func mailboxInput(input string) (string, error) {
	if !urlparse.IsURL(input) {
		return input, nil
	}
	parsed, err := urlparse.Parse(input)
	if err != nil {
		return "", api.NewValidationError("%s", err.Error())
	}
	if parsed.ResourceType != urlparse.Mailbox {
		return "", api.NewValidationError("URL points to a %s, expected a mailbox", parsed.ResourceType)
	}
	return parsed.Slug, nil
}

// resolveMailbox turns a --mailbox value (ID, name, slug or app URL) into
// an id string. With no value and useDefault set, the saved default
// mailbox is used.
func resolveMailbox(ctx context.Context, client *api.Client, input string, useDefault bool) (string, error) {
	if input == "" && useDefault {
		input = config.DefaultMailbox()
	}
	input, err := mailboxInput(input)
	if err != nil {
		return "", err
	}
	id, err := resolve.MailboxID(ctx, client.Mailboxes(), input)
	if err != nil || id == 0 {
		return "", err
	}
	return strconv.Itoa(id), nil
}
