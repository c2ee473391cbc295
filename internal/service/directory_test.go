package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

type memoryDirectory struct {
	users   []domain.User
	updates []domain.UserUpdate
	links   []domain.TeamLink
	posted  []domain.UserUpdateCreate
	created []domain.TeamLinkInput
}

func (m *memoryDirectory) ListUsers(context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), m.users...), nil
}

func (m *memoryDirectory) ListTeams(context.Context) ([]domain.Team, error) {
	return []domain.Team{{Name: "core"}, {Name: "ops"}}, nil
}

func (m *memoryDirectory) ListUserUpdates(context.Context) ([]domain.UserUpdate, error) {
	return m.updates, nil
}

func (m *memoryDirectory) PostUserUpdate(_ context.Context, in domain.UserUpdateCreate) (*domain.UserUpdate, error) {
	m.posted = append(m.posted, in)
	return &domain.UserUpdate{ID: 1, UserTName: in.UserTName, Update: in.Update}, nil
}

func (m *memoryDirectory) TeamLinks(_ context.Context, team string) ([]domain.TeamLink, error) {
	var out []domain.TeamLink
	for _, l := range m.links {
		if l.TeamName == team {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memoryDirectory) CreateTeamLink(_ context.Context, in domain.TeamLinkInput) (*domain.TeamLink, error) {
	m.created = append(m.created, in)
	id := int64(len(m.links) + 1)
	link := domain.TeamLink{ID: &id, Link: *in.Link, Name: *in.Name, TeamName: *in.TeamName}
	m.links = append(m.links, link)
	return &link, nil
}

func (m *memoryDirectory) UpdateTeamLink(_ context.Context, id int64, in domain.TeamLinkInput) (*domain.TeamLink, error) {
	return nil, nil
}

func (m *memoryDirectory) DeleteTeamLink(_ context.Context, id int64) error {
	return nil
}

func TestDirectory_UsersByTeam(t *testing.T) {
	core, ops := "core", "ops"
	dir := NewDirectory(&memoryDirectory{users: []domain.User{
		{TName: "a", TeamName: &core},
		{TName: "b", TeamName: &ops},
		{TName: "c"},
	}})

	all, err := dir.Users(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := dir.Users(context.Background(), "core")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].TName)
}

func TestDirectory_UpdatesSplit(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	store := &memoryDirectory{updates: []domain.UserUpdate{
		{ID: 1, StartDateTime: now.Add(-5 * day), EndDateTime: now.Add(-4 * day)},
		{ID: 2, StartDateTime: now.Add(2 * day), EndDateTime: now.Add(3 * day)},
		{ID: 3, StartDateTime: now.Add(-1 * day), EndDateTime: now.Add(day)},
		{ID: 4, StartDateTime: now.Add(-3 * day), EndDateTime: now.Add(-2 * day)},
		{ID: 5},
	}}
	dir := NewDirectory(store)
	dir.now = func() time.Time { return now }

	updates, err := dir.Updates(context.Background())
	require.NoError(t, err)

	ids := func(us []domain.UserUpdate) []int64 {
		var out []int64
		for _, u := range us {
			out = append(out, u.ID)
		}
		return out
	}
	assert.Equal(t, []int64{3, 2}, ids(updates.Upcoming))
	assert.Equal(t, []int64{4, 1}, ids(updates.Recent))
}

func TestDirectory_PostUpdate(t *testing.T) {
	store := &memoryDirectory{}
	dir := NewDirectory(store)
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	_, err := dir.PostUpdate(context.Background(), "u1", domain.UserUpdateCreate{Update: " ", StartDateTime: start, EndDateTime: start})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = dir.PostUpdate(context.Background(), "u1", domain.UserUpdateCreate{Update: "x", StartDateTime: start, EndDateTime: start.Add(-time.Hour)})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := dir.PostUpdate(context.Background(), "u1", domain.UserUpdateCreate{
		UserTName:     "someone-else",
		Update:        "On vacation",
		StartDateTime: start,
		EndDateTime:   start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserTName)
	require.Len(t, store.posted, 1)
	assert.Equal(t, "u1", store.posted[0].UserTName)
}

func TestDirectory_TeamLinksTable(t *testing.T) {
	ctx := context.Background()
	store := &memoryDirectory{}
	table := NewDirectory(store).NewTeamLinksTable(ctx, "core")

	table.StartCreate()
	table.UpdateDraft(map[string]any{"link": "ftp://x", "name": "Wiki"})
	require.ErrorIs(t, table.Create(ctx), domain.ErrValidation)
	assert.Empty(t, store.created)

	table.UpdateDraft(map[string]any{"link": " https://wiki.example.com ", "name": "Wiki", "team_name": "ops"})
	require.NoError(t, table.Create(ctx))

	require.Len(t, store.created, 1)
	assert.Equal(t, "https://wiki.example.com", *store.created[0].Link)
	assert.Equal(t, "core", *store.created[0].TeamName)

	state := table.Snapshot()
	assert.Equal(t, crud.ModeNone, state.Mode)
	require.Len(t, state.Rows, 1)
	assert.Equal(t, "Wiki", state.Rows[0].Name)
}
