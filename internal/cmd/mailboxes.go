package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/config"
	"github.com/helpscout/helpscout-cli/internal/resolve"
)

func newMailboxesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mailboxes",
		Aliases: []string{"mailbox", "mb"},
		Short:   "Mailbox operations",
	}
	cmd.AddCommand(newMailboxesListCmd())
	cmd.AddCommand(newMailboxesViewCmd())
	cmd.AddCommand(newMailboxesSetDefaultCmd())
	cmd.AddCommand(newMailboxesGetDefaultCmd())
	cmd.AddCommand(newMailboxesClearDefaultCmd())
	return cmd
}

func newMailboxesListCmd() *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List mailboxes",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := p.validate(); err != nil {
				return err
			}
			mailboxes := getClient().Mailboxes()
			if p.All {
				all, err := mailboxes.ListAll(cmd.Context(), p.Page)
				if err != nil {
					return err
				}
				return printJSON(cmd, collection("mailboxes", all))
			}
			result, err := mailboxes.List(cmd.Context(), p.Page)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}
	addPageFlags(cmd, &p, "Fetch every page")
	return cmd
}

func newMailboxesViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "view <id>",
		Aliases: []string{"get", "show"},
		Short:   "View a mailbox",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "mailbox")
			if err != nil {
				return err
			}
			mailbox, err := getClient().Mailboxes().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, mailbox)
		}),
	}
}

func newMailboxesSetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id|name>",
		Short: "Set the default mailbox used by conversations list",
		Long: `Set the default mailbox. A numeric ID is saved as given; a name or slug is
looked up first.`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			input, err := mailboxInput(args[0])
			if err != nil {
				return err
			}
			id, err := parseIDArg(input, "mailbox")
			if err != nil {
				if _, numErr := strconv.Atoi(input); numErr == nil {
					return err
				}
				if id, err = resolve.MailboxID(cmd.Context(), getClient().Mailboxes(), input); err != nil {
					return err
				}
			}
			if err := config.SetDefaultMailbox(strconv.Itoa(id)); err != nil {
				return err
			}
			return printMessage(cmd, "Default mailbox set to %d", id)
		}),
	}
}

type defaultMailbox struct {
	DefaultMailbox *string `json:"defaultMailbox"`
}

func newMailboxesGetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-default",
		Short: "Show the default mailbox",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var out defaultMailbox
			if id := config.DefaultMailbox(); id != "" {
				out.DefaultMailbox = &id
			}
			return printJSON(cmd, out)
		}),
	}
}

func newMailboxesClearDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-default",
		Short: "Clear the default mailbox",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.ClearDefaultMailbox(); err != nil {
				return err
			}
			return printMessage(cmd, "Default mailbox cleared")
		}),
	}
}
