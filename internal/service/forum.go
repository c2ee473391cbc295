package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/devinci/portal/internal/domain"
)

// ForumClient is the part of the backend client the forum uses
type ForumClient interface {
	TeamForumIdeas(ctx context.Context, team string) ([]domain.ForumIdea, error)
	PostForumIdea(ctx context.Context, in domain.ForumIdeaCreate) (*domain.ForumIdea, error)
	FutureForumEvents(ctx context.Context) ([]domain.ForumEvent, error)
	AddForumEvent(ctx context.Context, in domain.ForumEventCreate) (*domain.ForumEvent, error)
	FutureForumSchedule(ctx context.Context) ([]domain.ForumScheduleItem, error)
	ForumSettings(ctx context.Context) ([]domain.ForumSettings, error)
}

// Schedule is the upcoming forum schedule with override count
type Schedule struct {
	Items     []domain.ForumScheduleItem `json:"items"`
	Overrides int                        `json:"overrides"`
}

// Forum serves team ideas, forum events, schedule and settings
type Forum struct {
	client ForumClient
	now    func() time.Time
}

// NewForum creates a new Forum
func NewForum(client ForumClient) *Forum {
	return &Forum{client: client, now: time.Now}
}

// Ideas returns the ideas of team
func (f *Forum) Ideas(ctx context.Context, team string) ([]domain.ForumIdea, error) {
	if strings.TrimSpace(team) == "" {
		return nil, domain.NewValidationError("team is required")
	}
	return f.client.TeamForumIdeas(ctx, team)
}

// PostIdea publishes an idea of author for team
func (f *Forum) PostIdea(ctx context.Context, author, team, idea string) (*domain.ForumIdea, error) {
	idea = plainText(idea)
	if idea == "" {
		return nil, domain.NewValidationError("idea is required")
	}
	if strings.TrimSpace(team) == "" {
		return nil, domain.NewValidationError("team is required")
	}
	return f.client.PostForumIdea(ctx, domain.ForumIdeaCreate{
		Idea:      idea,
		UserTName: author,
		TeamName:  team,
	})
}

// Events returns future forum events in chronological order
func (f *Forum) Events(ctx context.Context) ([]domain.ForumEvent, error) {
	events, err := f.client.FutureForumEvents(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(events, func(a, b domain.ForumEvent) int {
		return a.DateTime.Compare(b.DateTime)
	})
	return events, nil
}

// AddEvent schedules a forum event. Past dates are rejected.
func (f *Forum) AddEvent(ctx context.Context, in domain.ForumEventCreate) (*domain.ForumEvent, error) {
	in.Name = plainText(in.Name)
	in.TeamName = strings.TrimSpace(in.TeamName)
	switch {
	case in.Name == "":
		return nil, domain.NewValidationError("event name is required")
	case in.TeamName == "":
		return nil, domain.NewValidationError("team_name is required")
	case in.DateTime.IsZero():
		return nil, domain.NewValidationError("date_time is required")
	case in.DateTime.Before(f.now()):
		return nil, domain.NewValidationError("date_time must be in the future")
	}
	return f.client.AddForumEvent(ctx, in)
}

// Schedule returns the upcoming schedule in chronological order
func (f *Forum) Schedule(ctx context.Context) (*Schedule, error) {
	items, err := f.client.FutureForumSchedule(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b domain.ForumScheduleItem) int {
		return a.DateTime.Compare(b.DateTime)
	})

	if items == nil {
		items = []domain.ForumScheduleItem{}
	}
	out := &Schedule{Items: items}
	for _, it := range items {
		if it.IsOverride() {
			out.Overrides++
		}
	}
	return out, nil
}

// Settings returns the current forum settings, or nil when none are stored
func (f *Forum) Settings(ctx context.Context) (*domain.ForumSettings, error) {
	all, err := f.client.ForumSettings(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return &all[len(all)-1], nil
}
