package mcpserver

import (
	"context"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/outfmt"
	"github.com/helpscout/helpscout-cli/internal/validation"
)

var readOnly = []mcp.ToolOption{
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(true),
}

var writes = []mcp.ToolOption{
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithOpenWorldHintAnnotation(true),
}

func tool(name, description string, base []mcp.ToolOption, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, base...)
	return mcp.NewTool(name, append(all, opts...)...)
}

func (s *Server) tools() []server.ServerTool {
	statuses := []string{"active", "pending", "closed", "spam", "all"}

	return []server.ServerTool{
		{
			Tool: tool("list_conversations", "List conversations with optional filtering by status, mailbox, tag, or assignee", readOnly,
				mcp.WithString("status", mcp.Description("Conversation status filter"), mcp.Enum(statuses...)),
				mcp.WithString("mailbox", mcp.Description("Mailbox ID to filter by")),
				mcp.WithString("tag", mcp.Description("Tag to filter by")),
				mcp.WithString("assignedTo", mcp.Description("User ID assigned to")),
				mcp.WithString("query", mcp.Description("Search query")),
				mcp.WithNumber("page", mcp.Description("Page number")),
			),
			Handler: handler(s.listConversations),
		},
		{
			Tool: tool("get_conversation", "Get detailed information about a specific conversation including threads", readOnly,
				mcp.WithNumber("conversationId", mcp.Required(), mcp.Description("Conversation ID")),
				mcp.WithBoolean("includeThreads", mcp.Description("Include conversation threads")),
			),
			Handler: handler(s.getConversation),
		},
		{
			Tool: tool("search_conversations", "Search all conversations matching a query", readOnly,
				mcp.WithString("query", mcp.Required(), mcp.Description(`Search query (e.g., "email:domain.com", "subject:billing")`)),
				mcp.WithString("status", mcp.Description("Status filter"), mcp.Enum(statuses...)),
			),
			Handler: handler(s.searchConversations),
		},
		{
			Tool:    tool("list_mailboxes", "List all mailboxes in the Help Scout account", readOnly),
			Handler: handler(s.listMailboxes),
		},
		{
			Tool: tool("get_mailbox", "Get detailed information about a specific mailbox", readOnly,
				mcp.WithNumber("mailboxId", mcp.Required(), mcp.Description("Mailbox ID")),
			),
			Handler: handler(s.getMailbox),
		},
		{
			Tool: tool("list_customers", "List customers with optional filtering", readOnly,
				mcp.WithString("query", mcp.Description("Search query")),
				mcp.WithString("firstName", mcp.Description("Filter by first name")),
				mcp.WithString("lastName", mcp.Description("Filter by last name")),
				mcp.WithNumber("page", mcp.Description("Page number")),
			),
			Handler: handler(s.listCustomers),
		},
		{
			Tool: tool("get_customer", "Get detailed information about a specific customer", readOnly,
				mcp.WithNumber("customerId", mcp.Required(), mcp.Description("Customer ID")),
			),
			Handler: handler(s.getCustomer),
		},
		{
			Tool: tool("list_tags", "List all tags in the Help Scout account", readOnly,
				mcp.WithNumber("page", mcp.Description("Page number")),
			),
			Handler: handler(s.listTags),
		},
		{
			Tool: tool("get_tag", "Get a single tag", readOnly,
				mcp.WithNumber("tagId", mcp.Required(), mcp.Description("Tag ID")),
			),
			Handler: handler(s.getTag),
		},
		{
			Tool: tool("list_workflows", "List workflows with optional filtering", readOnly,
				mcp.WithNumber("mailbox", mcp.Description("Mailbox ID to filter by")),
				mcp.WithString("type", mcp.Description("Workflow type"), mcp.Enum(api.WorkflowTypes...)),
				mcp.WithNumber("page", mcp.Description("Page number")),
			),
			Handler: handler(s.listWorkflows),
		},
		{
			Tool: tool("run_workflow", "Run a manual workflow on one or more conversations", writes,
				mcp.WithNumber("workflowId", mcp.Required(), mcp.Description("Workflow ID")),
				mcp.WithString("conversationIds", mcp.Required(), mcp.Description("Comma-separated conversation IDs")),
			),
			Handler: handler(s.runWorkflow),
		},
		{
			Tool: tool("create_note", "Add a private note to a conversation", writes,
				mcp.WithNumber("conversationId", mcp.Required(), mcp.Description("Conversation ID")),
				mcp.WithString("text", mcp.Required(), mcp.Description("Note text content")),
			),
			Handler: handler(s.createNote),
		},
		{
			Tool: tool("create_reply", "Reply to a conversation", writes,
				mcp.WithNumber("conversationId", mcp.Required(), mcp.Description("Conversation ID")),
				mcp.WithString("text", mcp.Required(), mcp.Description("Reply text content")),
				mcp.WithBoolean("draft", mcp.Description("Save as draft instead of sending")),
				mcp.WithString("status", mcp.Description("Conversation status after the reply"), mcp.Enum(api.ReplyStatuses...)),
			),
			Handler: handler(s.createReply),
		},
		{
			Tool: tool("add_tag", "Add a tag to a conversation", writes,
				mcp.WithNumber("conversationId", mcp.Required(), mcp.Description("Conversation ID")),
				mcp.WithString("tag", mcp.Required(), mcp.Description("Tag name to add")),
			),
			Handler: handler(s.addTag),
		},
		{
			Tool: tool("remove_tag", "Remove a tag from a conversation", writes,
				mcp.WithNumber("conversationId", mcp.Required(), mcp.Description("Conversation ID")),
				mcp.WithString("tag", mcp.Required(), mcp.Description("Tag name to remove")),
			),
			Handler: handler(s.removeTag),
		},
		{
			Tool:    tool("check_auth", "Check if Help Scout authentication is configured", readOnly),
			Handler: handler(s.checkAuth),
		},
	}
}

func (s *Server) listConversations(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	return s.client.Conversations().List(ctx, api.ListConversationsOptions{
		Status:     req.GetString("status", ""),
		Mailbox:    req.GetString("mailbox", ""),
		Tag:        req.GetString("tag", ""),
		AssignedTo: req.GetString("assignedTo", ""),
		Query:      req.GetString("query", ""),
		Page:       req.GetInt("page", 0),
	})
}

func (s *Server) getConversation(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "conversationId")
	if err != nil {
		return nil, err
	}
	conv, err := s.client.Conversations().Get(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if !req.GetBool("includeThreads", false) {
		return conv, nil
	}
	threads, err := s.client.Conversations().Threads(ctx, id)
	if err != nil {
		return nil, err
	}
	return withThreads(conv, threads)
}

func (s *Server) searchConversations(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return nil, api.NewValidationError("%s", err.Error())
	}
	return s.client.Conversations().ListAll(ctx, api.ListConversationsOptions{
		Query:  query,
		Status: req.GetString("status", ""),
	})
}

func (s *Server) listMailboxes(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	return s.client.Mailboxes().List(ctx, 0)
}

func (s *Server) getMailbox(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "mailboxId")
	if err != nil {
		return nil, err
	}
	return s.client.Mailboxes().Get(ctx, id)
}

func (s *Server) listCustomers(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	return s.client.Customers().List(ctx, api.ListCustomersOptions{
		Query:     req.GetString("query", ""),
		FirstName: req.GetString("firstName", ""),
		LastName:  req.GetString("lastName", ""),
		Page:      req.GetInt("page", 0),
	})
}

func (s *Server) getCustomer(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "customerId")
	if err != nil {
		return nil, err
	}
	return s.client.Customers().Get(ctx, id)
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	return s.client.Tags().List(ctx, req.GetInt("page", 0))
}

func (s *Server) getTag(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "tagId")
	if err != nil {
		return nil, err
	}
	return s.client.Tags().Get(ctx, id)
}

func (s *Server) listWorkflows(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	mailbox, err := optionalID(req, "mailbox")
	if err != nil {
		return nil, err
	}
	return s.client.Workflows().List(ctx, api.ListWorkflowsOptions{
		MailboxID: mailbox,
		Type:      req.GetString("type", ""),
		Page:      req.GetInt("page", 0),
	})
}

func (s *Server) runWorkflow(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "workflowId")
	if err != nil {
		return nil, err
	}
	raw, err := req.RequireString("conversationIds")
	if err != nil {
		return nil, api.NewValidationError("%s", err.Error())
	}
	ids, err := parseIDs(raw)
	if err != nil {
		return nil, err
	}
	if err := s.client.Workflows().Run(ctx, id, ids); err != nil {
		return nil, err
	}
	return success{Success: true}, nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "conversationId")
	if err != nil {
		return nil, err
	}
	text, err := requireText(req, "text")
	if err != nil {
		return nil, err
	}
	if err := s.client.Conversations().Note(ctx, id, api.NoteRequest{Text: text}); err != nil {
		return nil, err
	}
	return success{Success: true}, nil
}

func (s *Server) createReply(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, err := requireID(req, "conversationId")
	if err != nil {
		return nil, err
	}
	text, err := requireText(req, "text")
	if err != nil {
		return nil, err
	}
	reply := api.ReplyRequest{
		Text:   text,
		Draft:  req.GetBool("draft", false),
		Status: req.GetString("status", ""),
	}
	if err := s.client.Conversations().Reply(ctx, id, reply); err != nil {
		return nil, err
	}
	return success{Success: true}, nil
}

func (s *Server) addTag(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, tag, err := tagArgs(req)
	if err != nil {
		return nil, err
	}
	if err := s.client.Conversations().AddTag(ctx, id, tag); err != nil {
		return nil, err
	}
	return success{Success: true}, nil
}

func (s *Server) removeTag(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	id, tag, err := tagArgs(req)
	if err != nil {
		return nil, err
	}
	if err := s.client.Conversations().RemoveTag(ctx, id, tag); err != nil {
		return nil, err
	}
	return success{Success: true}, nil
}

type authState struct {
	Authenticated bool `json:"authenticated"`
	Configured    bool `json:"configured"`
}

func (s *Server) checkAuth(_ context.Context, _ mcp.CallToolRequest) (any, error) {
	return authState{
		Authenticated: s.client.Tokens.StoredToken() != "",
		Configured:    s.client.Tokens.Configured(),
	}, nil
}

func requireText(req mcp.CallToolRequest, name string) (string, error) {
	text, err := req.RequireString(name)
	if err != nil {
		return "", api.NewValidationError("%s", err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return "", api.NewValidationError("%s must not be empty", name)
	}
	if err := validation.Message(text); err != nil {
		return "", api.NewValidationError("%s", err.Error())
	}
	return text, nil
}

func tagArgs(req mcp.CallToolRequest) (int, string, error) {
	id, err := requireID(req, "conversationId")
	if err != nil {
		return 0, "", err
	}
	tag, err := requireText(req, "tag")
	if err != nil {
		return 0, "", err
	}
	return id, strings.TrimSpace(tag), nil
}

// withThreads appends a threads key to the conversation document, keeping
// the API's key order.
func withThreads(conv *api.Conversation, threads []api.Thread) (outfmt.Value, error) {
	doc, err := outfmt.FromAny(conv)
	if err != nil {
		return outfmt.Value{}, err
	}
	list, err := outfmt.FromAny(threads)
	if err != nil {
		return outfmt.Value{}, err
	}
	if !doc.IsObject() {
		return doc, nil
	}
	doc.Obj.Set("threads", list)
	return doc, nil
}

func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, api.NewValidationError("Invalid conversation ID: %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, api.NewValidationError("conversationIds must list at least one ID")
	}
	return ids, nil
}
