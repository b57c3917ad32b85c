package cmd

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/dates"
	"github.com/helpscout/helpscout-cli/internal/iocontext"
	"github.com/helpscout/helpscout-cli/internal/validation"
)

// Thread types shown by `conversations threads` unless --all or --type is given.
var (
	defaultThreadTypes   = []string{"customer", "message", "chat", "phone"}
	threadTypesWithNotes = []string{"customer", "message", "note", "chat", "phone"}
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conversation", "convs", "conv", "c"},
		Short:   "Conversation operations",
	}
	cmd.AddCommand(newConversationsListCmd())
	cmd.AddCommand(newConversationsViewCmd())
	cmd.AddCommand(newConversationsThreadsCmd())
	cmd.AddCommand(newConversationsUpdateCmd())
	cmd.AddCommand(newConversationsDeleteCmd())
	cmd.AddCommand(newConversationsAddTagCmd())
	cmd.AddCommand(newConversationsRemoveTagCmd())
	cmd.AddCommand(newConversationsReplyCmd())
	cmd.AddCommand(newConversationsNoteCmd())
	return cmd
}

type conversationListFlags struct {
	pageFlags
	Mailbox       string
	Status        string
	Tag           string
	AssignedTo    string
	ModifiedSince string
	CreatedSince  string
	CreatedBefore string
	Query         string
	SortField     string
	SortOrder     string
	Embed         string
	Summary       bool
}

// conversationSummary aggregates a full conversation listing.
type conversationSummary struct {
	Total         int                   `json:"total"`
	ByStatus      map[string]int        `json:"byStatus"`
	ByTag         map[string]int        `json:"byTag"`
	Conversations []conversationOneLine `json:"conversations"`
}

type conversationOneLine struct {
	ID      int      `json:"id"`
	Subject string   `json:"subject"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
	Preview string   `json:"preview"`
}

func summarizeConversations(convs []api.Conversation) conversationSummary {
	summary := conversationSummary{
		Total:         len(convs),
		ByStatus:      map[string]int{},
		ByTag:         map[string]int{},
		Conversations: make([]conversationOneLine, 0, len(convs)),
	}
	for _, c := range convs {
		summary.ByStatus[c.Status]++
		tags := c.TagNames()
		for _, t := range tags {
			summary.ByTag[t]++
		}
		summary.Conversations = append(summary.Conversations, conversationOneLine{
			ID:      c.ID,
			Subject: c.Subject,
			Status:  c.Status,
			Tags:    tags,
			Preview: c.Preview,
		})
	}
	return summary
}

func newConversationsListCmd() *cobra.Command {
	var f conversationListFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations",
		Long: `List conversations. --mailbox accepts an ID or a mailbox name and falls back
to the default mailbox. --created-since/--created-before are folded into the
search query.`,
		Example: `  helpscout conversations list --status active
  helpscout conversations list -m Support --tag vip --all
  helpscout conversations list --created-since "7d ago" --summary`,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			status, err := normalizeEnum("status", f.Status, api.ConversationStatuses)
			if err != nil {
				return err
			}
			order, err := normalizeEnum("sort-order", f.SortOrder, sortOrders)
			if err != nil {
				return err
			}

			now := nowFunc()
			modifiedSince := ""
			if f.ModifiedSince != "" {
				if modifiedSince, err = dates.ParseDateTime(f.ModifiedSince, now); err != nil {
					return err
				}
			}
			query, err := dates.BuildQuery(dates.Ranges{
				CreatedSince:  f.CreatedSince,
				CreatedBefore: f.CreatedBefore,
			}, f.Query, now)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := getClient()
			mailbox, err := resolveMailbox(ctx, client, f.Mailbox, true)
			if err != nil {
				return err
			}

			opts := api.ListConversationsOptions{
				Mailbox:       mailbox,
				Status:        status,
				Tag:           f.Tag,
				AssignedTo:    f.AssignedTo,
				ModifiedSince: modifiedSince,
				Query:         query,
				SortField:     f.SortField,
				SortOrder:     order,
				Page:          f.Page,
				Embed:         f.Embed,
			}
			if f.Summary || f.All {
				convs, err := client.Conversations().ListAll(ctx, opts)
				if err != nil {
					return err
				}
				if f.Summary {
					return printJSON(cmd, summarizeConversations(convs))
				}
				return printJSON(cmd, collection("conversations", convs))
			}
			result, err := client.Conversations().List(ctx, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}

	cmd.Flags().StringVarP(&f.Mailbox, "mailbox", "m", "", "Mailbox ID or name")
	cmd.Flags().StringVarP(&f.Status, "status", "s", "", "Status: "+strings.Join(api.ConversationStatuses, "|"))
	cmd.Flags().StringVarP(&f.Tag, "tag", "t", "", "Filter by tag(s), comma-separated")
	cmd.Flags().StringVar(&f.AssignedTo, "assigned-to", "", "Filter by assignee user ID")
	cmd.Flags().StringVar(&f.ModifiedSince, "modified-since", "", "Modified since (e.g., 2024-01-01, yesterday, 3d ago)")
	cmd.Flags().StringVar(&f.CreatedSince, "created-since", "", "Created since (e.g., 2024-01-01, monday, 2w ago)")
	cmd.Flags().StringVar(&f.CreatedBefore, "created-before", "", "Created before")
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "Advanced search query")
	cmd.Flags().StringVar(&f.SortField, "sort-field", "", "Sort by field (createdAt, modifiedAt, number, status, subject)")
	cmd.Flags().StringVar(&f.SortOrder, "sort-order", "", "Sort order: asc|desc")
	cmd.Flags().StringVar(&f.Embed, "embed", "", "Embed resources (threads)")
	cmd.Flags().BoolVar(&f.Summary, "summary", false, "Print counts by status and tag over all pages")
	addPageFlags(cmd, &f.pageFlags, "Fetch every page")
	flagAlias(cmd.Flags(), "assigned-to", "assignee")
	registerStaticCompletions(cmd, "status", api.ConversationStatuses)
	registerStaticCompletions(cmd, "sort-order", sortOrders)
	return cmd
}

func newConversationsViewCmd() *cobra.Command {
	var embed string

	cmd := &cobra.Command{
		Use:     "view <id>",
		Aliases: []string{"get", "show"},
		Short:   "View a conversation",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			conv, err := getClient().Conversations().Get(cmd.Context(), id, embed)
			if err != nil {
				return err
			}
			return printJSON(cmd, conv)
		}),
	}
	cmd.Flags().StringVar(&embed, "embed", "", "Embed resources (threads)")
	return cmd
}

func newConversationsThreadsCmd() *cobra.Command {
	var (
		includeNotes bool
		all          bool
		types        string
	)

	cmd := &cobra.Command{
		Use:   "threads <id>",
		Short: "List threads for a conversation",
		Long: `List threads for a conversation. By default only customer, message, chat and
phone threads are shown; --include-notes adds notes and --all shows every type
(lineitems, workflows, forwards).`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			threads, err := getClient().Conversations().Threads(cmd.Context(), id)
			if err != nil {
				return err
			}

			var allowed []string
			switch {
			case types != "":
				for _, t := range splitCommaList(types) {
					allowed = append(allowed, strings.ToLower(t))
				}
			case all:
			case includeNotes:
				allowed = threadTypesWithNotes
			default:
				allowed = defaultThreadTypes
			}
			if allowed != nil {
				threads = slices.DeleteFunc(threads, func(t api.Thread) bool {
					return !slices.Contains(allowed, t.Type)
				})
			}
			return printJSON(cmd, threads)
		}),
	}
	cmd.Flags().BoolVar(&includeNotes, "include-notes", false, "Include internal notes")
	cmd.Flags().BoolVar(&all, "all", false, "Show all thread types")
	cmd.Flags().StringVarP(&types, "type", "t", "", "Only these thread types, comma-separated")
	return cmd
}

// patchValue interprets a --value flag: valid JSON is sent as JSON,
// anything else as a string.
func patchValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func newConversationsUpdateCmd() *cobra.Command {
	var op, path, value string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Patch a conversation field",
		Example: `  helpscout conversations update 123 --path /subject --value "New subject"
  helpscout conversations update 123 --path /assignTo --value 42
  helpscout conversations update 123 --op remove --path /assignTo`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			if strings.TrimSpace(path) == "" {
				return api.NewValidationError("--path is required")
			}
			op, err = normalizeEnum("op", op, []string{"replace", "add", "remove", "move"})
			if err != nil {
				return err
			}
			patch := api.ConversationPatch{Op: op, Path: path}
			if cmd.Flags().Changed("value") {
				patch.Value = patchValue(value)
			} else if op != "remove" {
				return api.NewValidationError("--value is required for op %q", op)
			}
			if err := getClient().Conversations().Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			return printMessage(cmd, "Conversation updated")
		}),
	}
	cmd.Flags().StringVar(&op, "op", "replace", "Patch operation: replace|add|remove|move")
	cmd.Flags().StringVar(&path, "path", "", "Field path, e.g. /subject, /status, /assignTo (required)")
	cmd.Flags().StringVar(&value, "value", "", "New value (parsed as JSON when valid)")
	return cmd
}

func newConversationsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := requireYes(yes, "conversation"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			if err := getClient().Conversations().Delete(cmd.Context(), id); err != nil {
				return err
			}
			return printMessage(cmd, "Conversation deleted")
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func newConversationsAddTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-tag <id> <tag>",
		Short: "Add a tag to a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			tag := strings.TrimSpace(args[1])
			if tag == "" {
				return api.NewValidationError("tag name must not be empty")
			}
			if err := getClient().Conversations().AddTag(cmd.Context(), id, tag); err != nil {
				return err
			}
			return printMessage(cmd, "Tag %q added", tag)
		}),
	}
}

func newConversationsRemoveTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-tag <id> <tag>",
		Short: "Remove a tag from a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			tag := strings.TrimSpace(args[1])
			if tag == "" {
				return api.NewValidationError("tag name must not be empty")
			}
			if err := getClient().Conversations().RemoveTag(cmd.Context(), id, tag); err != nil {
				return err
			}
			return printMessage(cmd, "Tag %q removed", tag)
		}),
	}
}

// messageFlags are shared by reply and note.
type messageFlags struct {
	Text string
	User string
}

func (m messageFlags) resolve(cmd *cobra.Command) (string, int, error) {
	text, err := iocontext.GetIO(cmd.Context()).TextArg(m.Text)
	if err != nil {
		return "", 0, err
	}
	if strings.TrimSpace(text) == "" {
		return "", 0, api.NewValidationError("--text is required")
	}
	if err := validation.Message(text); err != nil {
		return "", 0, api.NewValidationError("%s", err.Error())
	}
	user := 0
	if m.User != "" {
		if user, err = parseIDArg(m.User, "user"); err != nil {
			return "", 0, err
		}
	}
	return text, user, nil
}

func addMessageFlags(cmd *cobra.Command, m *messageFlags, what string) {
	cmd.Flags().StringVar(&m.Text, "text", "", what+" text, or - to read stdin (required)")
	cmd.Flags().StringVar(&m.User, "user", "", "User ID to post as")
}

func newConversationsReplyCmd() *cobra.Command {
	var (
		m      messageFlags
		draft  bool
		status string
	)

	cmd := &cobra.Command{
		Use:   "reply <id>",
		Short: "Reply to a conversation",
		Example: `  helpscout conversations reply 123 --text "Thanks, fixed!" --status closed
  cat reply.html | helpscout conversations reply 123 --text - --draft`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			status, err = normalizeEnum("status", status, api.ReplyStatuses)
			if err != nil {
				return err
			}
			text, user, err := m.resolve(cmd)
			if err != nil {
				return err
			}
			req := api.ReplyRequest{Text: text, User: user, Draft: draft, Status: status}
			if err := getClient().Conversations().Reply(cmd.Context(), id, req); err != nil {
				return err
			}
			return printMessage(cmd, "Reply sent")
		}),
	}
	addMessageFlags(cmd, &m, "Reply")
	cmd.Flags().BoolVar(&draft, "draft", false, "Save as draft")
	cmd.Flags().StringVar(&status, "status", "", "Conversation status after reply: "+strings.Join(api.ReplyStatuses, "|"))
	registerStaticCompletions(cmd, "status", api.ReplyStatuses)
	return cmd
}

func newConversationsNoteCmd() *cobra.Command {
	var m messageFlags

	cmd := &cobra.Command{
		Use:   "note <id>",
		Short: "Add an internal note to a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "conversation")
			if err != nil {
				return err
			}
			text, user, err := m.resolve(cmd)
			if err != nil {
				return err
			}
			if err := getClient().Conversations().Note(cmd.Context(), id, api.NoteRequest{Text: text, User: user}); err != nil {
				return err
			}
			return printMessage(cmd, "Note added")
		}),
	}
	addMessageFlags(cmd, &m, "Note")
	return cmd
}
