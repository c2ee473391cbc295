package backend

import (
	"context"

	"github.com/devinci/portal/internal/domain"
)

// ListMessages calls GET /messages.
func (c *Client) ListMessages(ctx context.Context) ([]domain.Message, error) {
	var out domain.ListResult[domain.Message]
	if err := c.get(ctx, "/messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// PostMessage calls POST /messages.
func (c *Client) PostMessage(ctx context.Context, in domain.MessageCreate) (*domain.Message, error) {
	var out domain.Message
	if err := c.post(ctx, "/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
