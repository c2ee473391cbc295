package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/domain"
)

type memoryForum struct {
	ideas    []domain.ForumIdea
	events   []domain.ForumEvent
	schedule []domain.ForumScheduleItem
	settings []domain.ForumSettings
	added    []domain.ForumEventCreate
	err      error
}

func (m *memoryForum) TeamForumIdeas(_ context.Context, team string) ([]domain.ForumIdea, error) {
	return m.ideas, m.err
}

func (m *memoryForum) PostForumIdea(_ context.Context, in domain.ForumIdeaCreate) (*domain.ForumIdea, error) {
	idea := domain.ForumIdea{ID: 1, Idea: in.Idea, UserTName: in.UserTName, TeamName: in.TeamName}
	m.ideas = append(m.ideas, idea)
	return &idea, nil
}

func (m *memoryForum) FutureForumEvents(context.Context) ([]domain.ForumEvent, error) {
	return m.events, m.err
}

func (m *memoryForum) AddForumEvent(_ context.Context, in domain.ForumEventCreate) (*domain.ForumEvent, error) {
	m.added = append(m.added, in)
	return &domain.ForumEvent{ID: 9, Name: in.Name, DateTime: in.DateTime, TeamName: in.TeamName}, nil
}

func (m *memoryForum) FutureForumSchedule(context.Context) ([]domain.ForumScheduleItem, error) {
	return m.schedule, m.err
}

func (m *memoryForum) ForumSettings(context.Context) ([]domain.ForumSettings, error) {
	return m.settings, m.err
}

func TestForum_PostIdeaSanitizes(t *testing.T) {
	store := &memoryForum{}
	forum := NewForum(store)

	idea, err := forum.PostIdea(context.Background(), "u1", "core", "<i>Hackathon</i>")
	require.NoError(t, err)
	assert.Equal(t, "Hackathon", idea.Idea)
	assert.Equal(t, "u1", idea.UserTName)

	_, err = forum.PostIdea(context.Background(), "u1", "core", "<p></p>")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = forum.PostIdea(context.Background(), "u1", "core", "&lt;img src=x onerror=alert(1)&gt;")
	require.ErrorIs(t, err, domain.ErrValidation)

	idea, err = forum.PostIdea(context.Background(), "u1", "core", "Demo &lt;b&gt;day&lt;/b&gt;")
	require.NoError(t, err)
	assert.Equal(t, "Demo day", idea.Idea)
	for _, stored := range store.ideas {
		assert.NotContains(t, stored.Idea, "<")
	}

	_, err = forum.Ideas(context.Background(), " ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestForum_AddEventValidation(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryForum{}
	forum := NewForum(store)
	forum.now = func() time.Time { return now }

	tests := []struct {
		name string
		in   domain.ForumEventCreate
	}{
		{"no name", domain.ForumEventCreate{TeamName: "core", DateTime: now.Add(time.Hour)}},
		{"no team", domain.ForumEventCreate{Name: "Demo", DateTime: now.Add(time.Hour)}},
		{"no date", domain.ForumEventCreate{Name: "Demo", TeamName: "core"}},
		{"past", domain.ForumEventCreate{Name: "Demo", TeamName: "core", DateTime: now.Add(-time.Hour)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := forum.AddEvent(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, store.added)

	ev, err := forum.AddEvent(context.Background(), domain.ForumEventCreate{Name: " Demo ", TeamName: "core", DateTime: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Demo", ev.Name)
}

func TestForum_ScheduleAndSettings(t *testing.T) {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	id := int64(3)
	store := &memoryForum{
		schedule: []domain.ForumScheduleItem{
			{DateTime: base.Add(48 * time.Hour), TeamName: "ops", Source: domain.SourceGenerated},
			{ID: &id, DateTime: base, TeamName: "core", Source: domain.SourceOverride},
		},
		settings: []domain.ForumSettings{{ID: 1, ForumMinuteLength: 30}, {ID: 2, ForumMinuteLength: 45}},
	}
	forum := NewForum(store)

	schedule, err := forum.Schedule(context.Background())
	require.NoError(t, err)
	require.Len(t, schedule.Items, 2)
	assert.Equal(t, "core", schedule.Items[0].TeamName)
	assert.Equal(t, 1, schedule.Overrides)

	settings, err := forum.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, settings.ForumMinuteLength)

	store.settings = nil
	settings, err = forum.Settings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, settings)
}
