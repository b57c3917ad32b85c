package api

import (
	"context"
	"fmt"
	"net/http"
)

// Workflow types and statuses.
var (
	WorkflowTypes    = []string{"manual", "automatic"}
	WorkflowStatuses = []string{"active", "inactive"}
)

// ListWorkflowsOptions filters a workflow list call.
type ListWorkflowsOptions struct {
	MailboxID int
	Type      string
	Page      int
}

func (o ListWorkflowsOptions) query(page int) map[string]any {
	return map[string]any{
		"mailboxId": idParam(o.MailboxID),
		"type":      o.Type,
		"page":      pageParam(page),
	}
}

// WorkflowList is one page of workflows.
type WorkflowList struct {
	Workflows []Workflow `json:"workflows"`
	Page      *PageInfo  `json:"page,omitempty"`
}

type runWorkflowRequest struct {
	ConversationIDs []int `json:"conversationIds"`
}

// List returns one page of workflows.
func (s WorkflowsService) List(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowList, error) {
	page, err := s.listPage(ctx, opts, opts.Page)
	if err != nil {
		return nil, err
	}
	return &WorkflowList{Workflows: page.Items, Page: page.Page}, nil
}

// ListAll returns every workflow matching opts.
func (s WorkflowsService) ListAll(ctx context.Context, opts ListWorkflowsOptions) ([]Workflow, error) {
	return ListAll(ctx, opts.Page, func(ctx context.Context, page int) (*Page[Workflow], error) {
		return s.listPage(ctx, opts, page)
	})
}

func (s WorkflowsService) listPage(ctx context.Context, opts ListWorkflowsOptions, page int) (*Page[Workflow], error) {
	return listPage[Workflow](ctx, s, "/workflows", "workflows", opts.query(page))
}

// Run runs a manual workflow on the given conversations.
func (s WorkflowsService) Run(ctx context.Context, id int, conversationIDs []int) error {
	_, err := do(ctx, s, http.MethodPost, fmt.Sprintf("/workflows/%d/run", id), nil, runWorkflowRequest{ConversationIDs: conversationIDs}, nil)
	return err
}

// SetStatus activates or deactivates a workflow.
func (s WorkflowsService) SetStatus(ctx context.Context, id int, status string) error {
	patch := ConversationPatch{Op: "replace", Path: "/status", Value: status}
	_, err := do(ctx, s, http.MethodPatch, fmt.Sprintf("/workflows/%d", id), nil, patch, nil)
	return err
}
