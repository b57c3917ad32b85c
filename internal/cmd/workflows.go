package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/api"
)

func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflows",
		Aliases: []string{"workflow", "wf"},
		Short:   "Workflow operations",
	}
	cmd.AddCommand(newWorkflowsListCmd())
	cmd.AddCommand(newWorkflowsRunCmd())
	cmd.AddCommand(newWorkflowsStatusCmd("activate", "active", "Workflow activated"))
	cmd.AddCommand(newWorkflowsStatusCmd("deactivate", "inactive", "Workflow deactivated"))
	return cmd
}

func newWorkflowsListCmd() *cobra.Command {
	var (
		p       pageFlags
		mailbox string
		wfType  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workflows",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := p.validate(); err != nil {
				return err
			}
			typ, err := normalizeEnum("type", wfType, api.WorkflowTypes)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client := getClient()
			mb, err := resolveMailbox(ctx, client, mailbox, false)
			if err != nil {
				return err
			}
			opts := api.ListWorkflowsOptions{Type: typ, Page: p.Page}
			if mb != "" {
				opts.MailboxID, _ = strconv.Atoi(mb)
			}
			if p.All {
				all, err := client.Workflows().ListAll(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd, collection("workflows", all))
			}
			result, err := client.Workflows().List(ctx, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}
	cmd.Flags().StringVarP(&mailbox, "mailbox", "m", "", "Mailbox ID or name")
	cmd.Flags().StringVarP(&wfType, "type", "t", "", "Type: "+strings.Join(api.WorkflowTypes, "|"))
	addPageFlags(cmd, &p, "Fetch every page")
	registerStaticCompletions(cmd, "type", api.WorkflowTypes)
	return cmd
}

func newWorkflowsRunCmd() *cobra.Command {
	var conversations string

	cmd := &cobra.Command{
		Use:     "run <workflow-id>",
		Short:   "Run a manual workflow on conversations",
		Example: `  helpscout workflows run 77 --conversations 1001,1002`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "workflow")
			if err != nil {
				return err
			}
			ids, err := parseIDList(conversations, "conversation")
			if err != nil {
				return err
			}
			if err := getClient().Workflows().Run(cmd.Context(), id, ids); err != nil {
				return err
			}
			return printMessage(cmd, "Workflow executed")
		}),
	}
	cmd.Flags().StringVar(&conversations, "conversations", "", "Comma-separated conversation IDs (required)")
	flagAlias(cmd.Flags(), "conversations", "conversation-ids")
	return cmd
}

func newWorkflowsStatusCmd(use, status, message string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "workflow")
			if err != nil {
				return err
			}
			if err := getClient().Workflows().SetStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			return printMessage(cmd, "%s", message)
		}),
	}
}
