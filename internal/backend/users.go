package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/devinci/portal/internal/domain"
)

// ListUsers calls GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out domain.ListResult[domain.User]
	if err := c.get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ListUserUpdates calls GET /user_updates.
func (c *Client) ListUserUpdates(ctx context.Context) ([]domain.UserUpdate, error) {
	var out domain.ListResult[domain.UserUpdate]
	if err := c.get(ctx, "/user_updates", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// PostUserUpdate calls POST /user_updates.
func (c *Client) PostUserUpdate(ctx context.Context, in domain.UserUpdateCreate) (*domain.UserUpdate, error) {
	var out domain.UserUpdate
	if err := c.post(ctx, "/user_updates", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserEventsInRange calls GET /user_events?username=&start=&end= and returns
// the user's events overlapping [start, end].
func (c *Client) UserEventsInRange(ctx context.Context, username string, start, end time.Time) ([]domain.UserEvent, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("start", start.UTC().Format(time.RFC3339))
	query.Set("end", end.UTC().Format(time.RFC3339))

	var out []domain.UserEvent
	if err := c.get(ctx, "/user_events", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
