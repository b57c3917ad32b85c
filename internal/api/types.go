package api

import (
	"bytes"
	"encoding/json"
)

// Entities keep the raw payload they were decoded from so that fields the
// structs do not model (_links, _embedded, custom fields) reach the output
// pipeline untouched. Values built locally marshal from their fields.

// PageInfo is the page block of a paginated envelope.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Person is an embedded user or customer reference.
type Person struct {
	ID    int    `json:"id"`
	Type  string `json:"type,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Email string `json:"email,omitempty"`
}

// Source describes how a conversation or thread was created.
type Source struct {
	Type string `json:"type"`
	Via  string `json:"via"`
}

// CustomField is a mailbox-defined conversation field.
type CustomField struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// WaitingSince reports how long the customer has been waiting.
type WaitingSince struct {
	Time     string `json:"time"`
	Friendly string `json:"friendly"`
}

// Conversation is a Help Scout conversation.
type Conversation struct {
	ID                   int           `json:"id"`
	Number               int           `json:"number,omitempty"`
	Threads              int           `json:"threads,omitempty"`
	Type                 string        `json:"type,omitempty"`
	FolderID             int           `json:"folderId,omitempty"`
	Status               string        `json:"status,omitempty"`
	State                string        `json:"state,omitempty"`
	Subject              string        `json:"subject,omitempty"`
	Preview              string        `json:"preview,omitempty"`
	MailboxID            int           `json:"mailboxId,omitempty"`
	Assignee             *Person       `json:"assignee,omitempty"`
	CreatedBy            *Person       `json:"createdBy,omitempty"`
	CreatedAt            string        `json:"createdAt,omitempty"`
	ClosedAt             string        `json:"closedAt,omitempty"`
	ClosedBy             int           `json:"closedBy,omitempty"`
	ModifiedAt           string        `json:"modifiedAt,omitempty"`
	CustomerWaitingSince *WaitingSince `json:"customerWaitingSince,omitempty"`
	Source               *Source       `json:"source,omitempty"`
	Tags                 []Tag         `json:"tags,omitempty"`
	CC                   []string      `json:"cc,omitempty"`
	BCC                  []string      `json:"bcc,omitempty"`
	PrimaryCustomer      *Person       `json:"primaryCustomer,omitempty"`
	CustomFields         []CustomField `json:"customFields,omitempty"`

	raw json.RawMessage
}

func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Conversation(p)
	c.raw = keepRaw(data)
	return nil
}

func (c Conversation) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type plain Conversation
	return json.Marshal(plain(c))
}

// TagNames returns the names of the conversation's tags in order.
func (c Conversation) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.DisplayName())
	}
	return names
}

// ThreadAction describes a lineitem thread.
type ThreadAction struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Thread is one message, note, or event in a conversation.
type Thread struct {
	ID           int           `json:"id"`
	Type         string        `json:"type,omitempty"`
	Status       string        `json:"status,omitempty"`
	State        string        `json:"state,omitempty"`
	Action       *ThreadAction `json:"action,omitempty"`
	Body         string        `json:"body,omitempty"`
	Source       *Source       `json:"source,omitempty"`
	Customer     *Person       `json:"customer,omitempty"`
	CreatedBy    *Person       `json:"createdBy,omitempty"`
	AssignedTo   *Person       `json:"assignedTo,omitempty"`
	SavedReplyID int           `json:"savedReplyId,omitempty"`
	To           []string      `json:"to,omitempty"`
	CC           []string      `json:"cc,omitempty"`
	BCC          []string      `json:"bcc,omitempty"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	OpenedAt     string        `json:"openedAt,omitempty"`

	raw json.RawMessage
}

func (t *Thread) UnmarshalJSON(data []byte) error {
	type plain Thread
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Thread(p)
	t.raw = keepRaw(data)
	return nil
}

func (t Thread) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	type plain Thread
	return json.Marshal(plain(t))
}

// ContactValue is an email, phone, chat handle, social profile, or website.
type ContactValue struct {
	ID    int    `json:"id,omitempty"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Address is a customer's postal address.
type Address struct {
	ID         int      `json:"id,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Lines      []string `json:"lines,omitempty"`
}

// Customer is a Help Scout customer profile.
type Customer struct {
	ID             int            `json:"id"`
	FirstName      string         `json:"firstName,omitempty"`
	LastName       string         `json:"lastName,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	JobTitle       string         `json:"jobTitle,omitempty"`
	Location       string         `json:"location,omitempty"`
	Organization   string         `json:"organization,omitempty"`
	PhotoType      string         `json:"photoType,omitempty"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	Background     string         `json:"background,omitempty"`
	Age            string         `json:"age,omitempty"`
	CreatedAt      string         `json:"createdAt,omitempty"`
	UpdatedAt      string         `json:"updatedAt,omitempty"`
	Emails         []ContactValue `json:"emails,omitempty"`
	Phones         []ContactValue `json:"phones,omitempty"`
	Chats          []ContactValue `json:"chats,omitempty"`
	SocialProfiles []ContactValue `json:"socialProfiles,omitempty"`
	Websites       []ContactValue `json:"websites,omitempty"`
	Addresses      []Address      `json:"addresses,omitempty"`

	raw json.RawMessage
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	type plain Customer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Customer(p)
	c.raw = keepRaw(data)
	return nil
}

func (c Customer) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type plain Customer
	return json.Marshal(plain(c))
}

// Tag is a Help Scout tag. Conversation payloads name tags with "tag" while
// the tags endpoint uses "name".
type Tag struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	TicketCount int    `json:"ticketCount,omitempty"`

	raw json.RawMessage
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	t.raw = keepRaw(data)
	return nil
}

func (t Tag) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	type plain Tag
	return json.Marshal(plain(t))
}

// DisplayName returns the tag's name, whichever key carried it.
func (t Tag) DisplayName() string {
	if t.Tag != "" {
		return t.Tag
	}
	if t.Name != "" {
		return t.Name
	}
	return "unknown"
}

// Workflow is a manual or automatic mailbox workflow.
type Workflow struct {
	ID         int    `json:"id"`
	MailboxID  int    `json:"mailboxId,omitempty"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	Order      int    `json:"order,omitempty"`
	Name       string `json:"name,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	ModifiedAt string `json:"modifiedAt,omitempty"`

	raw json.RawMessage
}

func (w *Workflow) UnmarshalJSON(data []byte) error {
	type plain Workflow
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = Workflow(p)
	w.raw = keepRaw(data)
	return nil
}

func (w Workflow) MarshalJSON() ([]byte, error) {
	if len(w.raw) > 0 {
		return w.raw, nil
	}
	type plain Workflow
	return json.Marshal(plain(w))
}

// Mailbox is a Help Scout mailbox (inbox).
type Mailbox struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	raw json.RawMessage
}

func (m *Mailbox) UnmarshalJSON(data []byte) error {
	type plain Mailbox
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Mailbox(p)
	m.raw = keepRaw(data)
	return nil
}

func (m Mailbox) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	type plain Mailbox
	return json.Marshal(plain(m))
}

func keepRaw(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return append(json.RawMessage(nil), trimmed...)
}
