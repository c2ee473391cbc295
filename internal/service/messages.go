package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// EmptyMessagesText is shown when the board has no messages
const EmptyMessagesText = "No messages yet"

// MessageClient is the part of the backend client the message board uses
type MessageClient interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	PostMessage(ctx context.Context, in domain.MessageCreate) (*domain.Message, error)
}

// MessageBoard lists and posts board messages
type MessageBoard struct {
	client MessageClient
	now    func() time.Time
}

// NewMessageBoard creates a new MessageBoard
func NewMessageBoard(client MessageClient) *MessageBoard {
	return &MessageBoard{client: client, now: time.Now}
}

// List returns messages newest first
func (b *MessageBoard) List(ctx context.Context) ([]domain.Message, error) {
	msgs, err := b.client.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(msgs, func(x, y domain.Message) int {
		if c := y.DateTime.Compare(x.DateTime); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})
	return msgs, nil
}

// Post publishes a message from author. Title and body are required;
// the timestamp is set here.
func (b *MessageBoard) Post(ctx context.Context, author string, d crud.Draft) (*domain.Message, error) {
	title := plainText(d.String("title"))
	body := plainText(d.String("message"))
	if title == "" || body == "" {
		return nil, domain.NewValidationError("title and message are required")
	}

	return b.client.PostMessage(ctx, domain.MessageCreate{
		Title:     title,
		Message:   body,
		UserTName: author,
		DateTime:  b.now().UTC(),
	})
}

// NewTable creates the message board table for author. Messages are
// immutable once posted, so the table supports listing and creating only.
func (b *MessageBoard) NewTable(ctx context.Context, author string) *crud.Table[domain.Message, int64] {
	api := crud.API[domain.Message, int64]{
		List: b.List,
		Create: func(ctx context.Context, payload crud.Draft) error {
			_, err := b.Post(ctx, author, payload)
			return err
		},
		GetID: func(m domain.Message) (int64, bool) {
			return m.ID, m.ID != 0
		},
	}
	return crud.New(ctx, api, crud.Draft{"title": "", "message": ""})
}
