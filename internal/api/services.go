package api

// Service accessors group resource methods. Each service embeds the
// Requester so tests can drive it with a stub dispatcher.

type ConversationsService struct{ Requester }

type CustomersService struct{ Requester }

type TagsService struct{ Requester }

type WorkflowsService struct{ Requester }

type MailboxesService struct{ Requester }

func (c *Client) Conversations() ConversationsService {
	return ConversationsService{c}
}

func (c *Client) Customers() CustomersService {
	return CustomersService{c}
}

func (c *Client) Tags() TagsService {
	return TagsService{c}
}

func (c *Client) Workflows() WorkflowsService {
	return WorkflowsService{c}
}

func (c *Client) Mailboxes() MailboxesService {
	return MailboxesService{c}
}

// pageParam omits page numbers that were not requested.
func pageParam(page int) any {
	if page <= 0 {
		return nil
	}
	return page
}

// idParam omits unset numeric ids.
func idParam(id int) any {
	if id <= 0 {
		return nil
	}
	return id
}
