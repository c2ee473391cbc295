package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devinci/portal/internal/cleaning"
	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/workspace"
)

// CleaningView представляет график дежурств
type CleaningView struct {
	crud.State[domain.CleaningDuty, int64]
	CanManage bool `json:"can_manage"`
}

// CleaningHandler обрабатывает эндпоинты графика дежурств
type CleaningHandler struct {
	workspaces *workspace.Registry
}

// NewCleaningHandler создает новый CleaningHandler
func NewCleaningHandler(workspaces *workspace.Registry) *CleaningHandler {
	return &CleaningHandler{workspaces: workspaces}
}

// Routes возвращает роутер страницы /cleaning.
// Смотреть график могут все, менять только менеджеры дежурств и админы.
func (h *CleaningHandler) Routes() chi.Router {
	page := &TablePage[domain.CleaningDuty, int64]{
		Table: func(r *http.Request) (*crud.Table[domain.CleaningDuty, int64], error) {
			ctx := r.Context()
			return h.workspaces.Get(middleware.SessionIDFromContext(ctx)).Cleaning(ctx).Table(), nil
		},
		ParseID: ParseInt64ID,
		View: func(r *http.Request, table *crud.Table[domain.CleaningDuty, int64]) (any, error) {
			return CleaningView{
				State:     table.Snapshot(),
				CanManage: cleaning.CanManage(middleware.UserFromContext(r.Context())),
			}, nil
		},
		CanWrite: func(r *http.Request) bool {
			return cleaning.CanManage(middleware.UserFromContext(r.Context()))
		},
	}
	return page.Routes()
}
