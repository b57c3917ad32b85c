package api

import (
	"context"
	"fmt"
	"net/http"
)

// Conversation statuses accepted by list filters.
var ConversationStatuses = []string{"active", "all", "closed", "open", "pending", "spam"}

// Statuses a reply may set on its conversation.
var ReplyStatuses = []string{"active", "closed", "pending"}

// ListConversationsOptions filters a conversation list call.
type ListConversationsOptions struct {
	Mailbox       string
	Status        string
	Tag           string
	AssignedTo    string
	ModifiedSince string
	Query         string
	SortField     string
	SortOrder     string
	Page          int
	Embed         string
}

func (o ListConversationsOptions) query(page int) map[string]any {
	return map[string]any{
		"mailbox":       o.Mailbox,
		"status":        o.Status,
		"tag":           o.Tag,
		"assigned_to":   o.AssignedTo,
		"modifiedSince": o.ModifiedSince,
		"query":         o.Query,
		"sortField":     o.SortField,
		"sortOrder":     o.SortOrder,
		"page":          pageParam(page),
		"embed":         o.Embed,
	}
}

// ConversationList is one page of conversations.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	Page          *PageInfo      `json:"page,omitempty"`
}

// ConversationPatch is a JSON-patch style update.
type ConversationPatch struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// ReplyRequest creates a reply thread.
type ReplyRequest struct {
	Text   string `json:"text"`
	User   int    `json:"user,omitempty"`
	Draft  bool   `json:"draft,omitempty"`
	Status string `json:"status,omitempty"`
}

// NoteRequest creates an internal note.
type NoteRequest struct {
	Text string `json:"text"`
	User int    `json:"user,omitempty"`
}

type tagSet struct {
	Tags []string `json:"tags"`
}

// List returns one page of conversations.
func (s ConversationsService) List(ctx context.Context, opts ListConversationsOptions) (*ConversationList, error) {
	page, err := s.listPage(ctx, opts, opts.Page)
	if err != nil {
		return nil, err
	}
	return &ConversationList{Conversations: page.Items, Page: page.Page}, nil
}

// ListAll returns every conversation matching opts, starting at opts.Page.
func (s ConversationsService) ListAll(ctx context.Context, opts ListConversationsOptions) ([]Conversation, error) {
	return ListAll(ctx, opts.Page, func(ctx context.Context, page int) (*Page[Conversation], error) {
		return s.listPage(ctx, opts, page)
	})
}

func (s ConversationsService) listPage(ctx context.Context, opts ListConversationsOptions, page int) (*Page[Conversation], error) {
	return listPage[Conversation](ctx, s, "/conversations", "conversations", opts.query(page))
}

// Get returns a single conversation. embed may name sub-resources such as
// "threads".
func (s ConversationsService) Get(ctx context.Context, id int, embed string) (*Conversation, error) {
	var conv Conversation
	if err := get(ctx, s, fmt.Sprintf("/conversations/%d", id), map[string]any{"embed": embed}, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Threads returns the threads of a conversation.
func (s ConversationsService) Threads(ctx context.Context, id int) ([]Thread, error) {
	page, err := listPage[Thread](ctx, s, fmt.Sprintf("/conversations/%d/threads", id), "threads", nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Update applies a JSON-patch operation to a conversation.
func (s ConversationsService) Update(ctx context.Context, id int, patch ConversationPatch) error {
	_, err := do(ctx, s, http.MethodPatch, fmt.Sprintf("/conversations/%d", id), nil, patch, nil)
	return err
}

// Delete removes a conversation.
func (s ConversationsService) Delete(ctx context.Context, id int) error {
	_, err := do(ctx, s, http.MethodDelete, fmt.Sprintf("/conversations/%d", id), nil, nil, nil)
	return err
}

// SetTags replaces the full tag set of a conversation.
func (s ConversationsService) SetTags(ctx context.Context, id int, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	_, err := do(ctx, s, http.MethodPut, fmt.Sprintf("/conversations/%d/tags", id), nil, tagSet{Tags: tags}, nil)
	return err
}

// AddTag appends tag to the conversation's current tags. The tags endpoint
// replaces the whole set, so existing tags are read first.
func (s ConversationsService) AddTag(ctx context.Context, id int, tag string) error {
	conv, err := s.Get(ctx, id, "")
	if err != nil {
		return err
	}
	tags := conv.TagNames()
	for _, existing := range tags {
		if existing == tag {
			return s.SetTags(ctx, id, tags)
		}
	}
	return s.SetTags(ctx, id, append(tags, tag))
}

// RemoveTag drops tag from the conversation's current tags.
func (s ConversationsService) RemoveTag(ctx context.Context, id int, tag string) error {
	conv, err := s.Get(ctx, id, "")
	if err != nil {
		return err
	}
	kept := []string{}
	for _, existing := range conv.TagNames() {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	return s.SetTags(ctx, id, kept)
}

// Reply adds a reply thread to a conversation.
func (s ConversationsService) Reply(ctx context.Context, id int, req ReplyRequest) error {
	_, err := do(ctx, s, http.MethodPost, fmt.Sprintf("/conversations/%d/reply", id), nil, req, nil)
	return err
}

// Note adds an internal note to a conversation.
func (s ConversationsService) Note(ctx context.Context, id int, req NoteRequest) error {
	_, err := do(ctx, s, http.MethodPost, fmt.Sprintf("/conversations/%d/notes", id), nil, req, nil)
	return err
}
