package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
	"github.com/devinci/portal/internal/workspace"
)

// TeamHandler обрабатывает эндпоинты команд и их ссылок
type TeamHandler struct {
	directory  *service.Directory
	workspaces *workspace.Registry
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(directory *service.Directory, workspaces *workspace.Registry) *TeamHandler {
	return &TeamHandler{
		directory:  directory,
		workspaces: workspaces,
	}
}

// ListTeams обрабатывает GET /teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.directory.Teams(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	RespondWithJSON(w, r, http.StatusOK, teams)
}

// LinksRoutes возвращает роутер страницы /teams/{team}/links
func (h *TeamHandler) LinksRoutes() chi.Router {
	page := &TablePage[domain.TeamLink, int64]{
		Table: func(r *http.Request) (*crud.Table[domain.TeamLink, int64], error) {
			team := strings.TrimSpace(chi.URLParam(r, "team"))
			if team == "" {
				return nil, domain.NewValidationError("team is required")
			}
			ctx := r.Context()
			return h.workspaces.Get(middleware.SessionIDFromContext(ctx)).TeamLinks(ctx, team), nil
		},
		ParseID: ParseInt64ID,
	}
	return page.Routes()
}
