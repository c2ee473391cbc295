// Package workspace keeps the stateful page controllers of each portal
// session. Controllers are created on first use with the request context of
// that first request, so their initial load carries the caller's token.
package workspace

import (
	"context"
	"sync"

	"github.com/devinci/portal/internal/admin"
	"github.com/devinci/portal/internal/cleaning"
	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/service"
)

// Deps are the shared services controllers are built from.
type Deps struct {
	Messages      *service.MessageBoard
	Directory     *service.Directory
	Cleaning      cleaning.Client
	Admin         admin.Client
	AdminPageSize int
}

// Registry maps session ids to workspaces.
type Registry struct {
	deps Deps

	mu     sync.Mutex
	spaces map[string]*Workspace
}

// NewRegistry creates an empty Registry.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, spaces: make(map[string]*Workspace)}
}

// Get returns the workspace of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.spaces[sessionID]
	if !ok {
		ws = &Workspace{
			deps:      r.deps,
			teamLinks: make(map[string]*crud.Table[domain.TeamLink, int64]),
			admin:     make(map[string]*admin.Page),
		}
		r.spaces[sessionID] = ws
	}
	return ws
}

// Drop discards the workspace of sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spaces, sessionID)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Workspace holds the page controllers of one session.
type Workspace struct {
	deps Deps

	mu        sync.Mutex
	messages  *crud.Table[domain.Message, int64]
	cleaning  *cleaning.Page
	teamLinks map[string]*crud.Table[domain.TeamLink, int64]
	admin     map[string]*admin.Page
}

// Messages returns the message board table; posts are authored by author.
func (w *Workspace) Messages(ctx context.Context, author string) *crud.Table[domain.Message, int64] {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.messages == nil {
		w.messages = w.deps.Messages.NewTable(ctx, author)
	}
	return w.messages
}

// Cleaning returns the cleaning-duty page.
func (w *Workspace) Cleaning(ctx context.Context) *cleaning.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cleaning == nil {
		w.cleaning = cleaning.NewPage(ctx, w.deps.Cleaning)
	}
	return w.cleaning
}

// TeamLinks returns the links table of team.
func (w *Workspace) TeamLinks(ctx context.Context, team string) *crud.Table[domain.TeamLink, int64] {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.teamLinks[team]
	if !ok {
		t = w.deps.Directory.NewTeamLinksTable(ctx, team)
		w.teamLinks[team] = t
	}
	return t
}

// Admin returns the admin page of entity.
func (w *Workspace) Admin(ctx context.Context, entity admin.Entity) *admin.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.admin[entity.Name]
	if !ok {
		p = admin.NewPage(ctx, w.deps.Admin, entity, w.deps.AdminPageSize)
		w.admin[entity.Name] = p
	}
	return p
}
