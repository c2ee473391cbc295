package backend

import (
	"context"
	"net/url"

	"github.com/devinci/portal/internal/domain"
)

// TeamForumIdeas calls GET /forum_ideas/teamForumIdeas?team_name=.
func (c *Client) TeamForumIdeas(ctx context.Context, team string) ([]domain.ForumIdea, error) {
	query := url.Values{}
	query.Set("team_name", team)

	var out []domain.ForumIdea
	if err := c.get(ctx, "/forum_ideas/teamForumIdeas", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostForumIdea calls POST /forum_ideas.
func (c *Client) PostForumIdea(ctx context.Context, in domain.ForumIdeaCreate) (*domain.ForumIdea, error) {
	var out domain.ForumIdea
	if err := c.post(ctx, "/forum_ideas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FutureForumEvents calls GET /forum_events/futureForumEvents.
func (c *Client) FutureForumEvents(ctx context.Context) ([]domain.ForumEvent, error) {
	var out []domain.ForumEvent
	if err := c.get(ctx, "/forum_events/futureForumEvents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddForumEvent calls POST /forum_events.
func (c *Client) AddForumEvent(ctx context.Context, in domain.ForumEventCreate) (*domain.ForumEvent, error) {
	var out domain.ForumEvent
	if err := c.post(ctx, "/forum_events", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FutureForumSchedule calls GET /forum_settings/futureForumSchedule.
func (c *Client) FutureForumSchedule(ctx context.Context) ([]domain.ForumScheduleItem, error) {
	var out []domain.ForumScheduleItem
	if err := c.get(ctx, "/forum_settings/futureForumSchedule", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForumSettings calls GET /forum_settings.
func (c *Client) ForumSettings(ctx context.Context) ([]domain.ForumSettings, error) {
	var out domain.ListResult[domain.ForumSettings]
	if err := c.get(ctx, "/forum_settings", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
