package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devinci/portal/internal/admin"
	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/workspace"
)

// AdminHandler обрабатывает эндпоинты админки
type AdminHandler struct {
	browser    *admin.Browser
	workspaces *workspace.Registry
}

// NewAdminHandler создает новый AdminHandler
func NewAdminHandler(browser *admin.Browser, workspaces *workspace.Registry) *AdminHandler {
	return &AdminHandler{
		browser:    browser,
		workspaces: workspaces,
	}
}

// ListEntities обрабатывает GET /admin/entities
func (h *AdminHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.browser.Entities(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if entities == nil {
		entities = []admin.Entity{}
	}
	RespondWithJSON(w, r, http.StatusOK, entities)
}

// EntityRoutes возвращает роутер страницы /admin/{entity}.
// Кроме общих эндпоинтов таблицы есть POST /page?limit=&offset=.
func (h *AdminHandler) EntityRoutes() chi.Router {
	page := &TablePage[domain.Row, string]{
		Table: func(r *http.Request) (*crud.Table[domain.Row, string], error) {
			p, err := h.page(r)
			if err != nil {
				return nil, err
			}
			return p.Table(), nil
		},
		ParseID: ParseStringID,
		View: func(r *http.Request, _ *crud.Table[domain.Row, string]) (any, error) {
			p, err := h.page(r)
			if err != nil {
				return nil, err
			}
			return p.View(), nil
		},
	}

	router := page.Routes()
	router.Post("/page", h.SetPage)
	return router
}

// SetPage обрабатывает POST /admin/{entity}/page?limit=...&offset=...
func (h *AdminHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	view := p.View()
	limit, offset := view.Limit, view.Offset
	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "limit must be a number")
			return
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "offset must be a number")
			return
		}
	}

	if err := p.SetPage(r.Context(), limit, offset); err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, p.View())
}

func (h *AdminHandler) page(r *http.Request) (*admin.Page, error) {
	ctx := r.Context()
	entity, err := h.browser.Entity(ctx, chi.URLParam(r, "entity"))
	if err != nil {
		return nil, err
	}
	return h.workspaces.Get(middleware.SessionIDFromContext(ctx)).Admin(ctx, entity), nil
}
