package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

type memoryMessages struct {
	items   []domain.Message
	listErr error
	posted  []domain.MessageCreate
}

func (m *memoryMessages) ListMessages(context.Context) ([]domain.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Message(nil), m.items...), nil
}

func (m *memoryMessages) PostMessage(_ context.Context, in domain.MessageCreate) (*domain.Message, error) {
	m.posted = append(m.posted, in)
	msg := domain.Message{
		ID:        int64(len(m.items) + 1),
		Title:     in.Title,
		Message:   in.Message,
		UserTName: in.UserTName,
		DateTime:  in.DateTime,
	}
	m.items = append(m.items, msg)
	return &msg, nil
}

func TestMessageBoard_ListNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryMessages{items: []domain.Message{
		{ID: 1, DateTime: base},
		{ID: 2, DateTime: base.Add(time.Hour)},
		{ID: 3, DateTime: base},
	}}

	msgs, err := NewMessageBoard(store).List(context.Background())
	require.NoError(t, err)

	ids := []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestMessageBoard_Post(t *testing.T) {
	store := &memoryMessages{}
	board := NewMessageBoard(store)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("IDT", 3*3600))
	board.now = func() time.Time { return fixed }

	msg, err := board.Post(context.Background(), "u1", crud.Draft{
		"title":   "<b>Hi</b>",
		"message": "there <script>alert(1)</script>& more",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi", msg.Title)
	assert.Equal(t, "there & more", msg.Message)
	assert.Equal(t, "u1", msg.UserTName)
	assert.Equal(t, fixed.UTC(), msg.DateTime)

	_, err = board.Post(context.Background(), "u1", crud.Draft{"title": "x", "message": nil})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, store.posted, 1)
}

func TestMessageBoard_TableFlow(t *testing.T) {
	ctx := context.Background()
	store := &memoryMessages{}
	board := NewMessageBoard(store)

	table := board.NewTable(ctx, "u1")
	assert.Empty(t, table.Snapshot().Rows)

	table.StartCreate()
	table.UpdateDraft(map[string]any{"title": "Hi", "message": "there"})
	require.NoError(t, table.Create(ctx))

	rows := table.Snapshot().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Hi", rows[0].Title)
	assert.Equal(t, "u1", rows[0].UserTName)
	assert.False(t, rows[0].DateTime.IsZero())

	assert.ErrorIs(t, table.SaveEdit(ctx), domain.ErrNotSupported)
}

func TestMessageBoard_TableLoadFailure(t *testing.T) {
	store := &memoryMessages{listErr: errors.New("")}
	table := NewMessageBoard(store).NewTable(context.Background(), "u1")

	state := table.Snapshot()
	assert.Empty(t, state.Rows)
	assert.Equal(t, "Failed to load", state.Err)
}
