package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
	"github.com/devinci/portal/internal/workspace"
)

// MessagesView представляет доску сообщений
type MessagesView struct {
	crud.State[domain.Message, int64]
	EmptyText string `json:"empty_text,omitempty"`
}

// MessagesHandler обрабатывает эндпоинты доски сообщений
type MessagesHandler struct {
	workspaces *workspace.Registry
}

// NewMessagesHandler создает новый MessagesHandler
func NewMessagesHandler(workspaces *workspace.Registry) *MessagesHandler {
	return &MessagesHandler{workspaces: workspaces}
}

// Routes возвращает роутер страницы /messages
func (h *MessagesHandler) Routes() chi.Router {
	page := &TablePage[domain.Message, int64]{
		Table: func(r *http.Request) (*crud.Table[domain.Message, int64], error) {
			ctx := r.Context()
			user := middleware.UserFromContext(ctx)
			if user == nil {
				return nil, domain.ErrUnauthorized
			}
			ws := h.workspaces.Get(middleware.SessionIDFromContext(ctx))
			return ws.Messages(ctx, user.TName), nil
		},
		ParseID: ParseInt64ID,
		View: func(_ *http.Request, table *crud.Table[domain.Message, int64]) (any, error) {
			view := MessagesView{State: table.Snapshot()}
			if len(view.Rows) == 0 && view.Err == "" && !view.Loading {
				view.EmptyText = service.EmptyMessagesText
			}
			return view, nil
		},
	}
	return page.Routes()
}
