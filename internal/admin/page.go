package admin

import (
	"context"
	"slices"
	"sync"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// Page size bounds.
const (
	MinLimit = 1
	MaxLimit = 200
)

// Client is the part of the backend client the admin page uses.
type Client interface {
	AdminEntities(ctx context.Context) ([]string, error)
	AdminRows(ctx context.Context, entity string, limit, offset int) (*domain.RowsPage, error)
	CreateAdminRow(ctx context.Context, entity string, payload map[string]any) (domain.Row, error)
	UpdateAdminRow(ctx context.Context, entity, rowID string, payload map[string]any) (domain.Row, error)
	DeleteAdminRow(ctx context.Context, entity, rowID string) error

	ResourceRows(ctx context.Context, path string) (*domain.ListResult[domain.Row], error)
	CreateResourceRow(ctx context.Context, path string, payload map[string]any) error
	UpdateResourceRow(ctx context.Context, path string, keys []string, payload map[string]any) error
	DeleteResourceRow(ctx context.Context, path string, keys []string) error
}

// View is what the admin page shows for one entity.
type View struct {
	Entity     string                         `json:"entity"`
	Columns    []string                       `json:"columns"`
	PrimaryKey []string                       `json:"primary_key"`
	Limit      int                            `json:"limit"`
	Offset     int                            `json:"offset"`
	Total      int                            `json:"total"`
	RowIDs     []*string                      `json:"row_ids"`
	Table      crud.State[domain.Row, string] `json:"table"`
}

// Page is the CRUD table of one admin entity with pagination.
// Rows are addressed by their ":"-joined primary key.
type Page struct {
	entity Entity
	client Client
	table  *crud.Table[domain.Row, string]

	mu         sync.Mutex
	limit      int
	offset     int
	total      int
	columns    []string
	primaryKey []string
}

// NewPage creates the page for entity and loads its first page of rows.
func NewPage(ctx context.Context, client Client, entity Entity, pageSize int) *Page {
	if pageSize < MinLimit || pageSize > MaxLimit {
		pageSize = 50
	}
	p := &Page{
		entity:     entity,
		client:     client,
		limit:      pageSize,
		primaryKey: slices.Clone(entity.PrimaryKey),
		columns:    slices.Clone(entity.Columns),
	}

	api := crud.API[domain.Row, string]{
		List:   p.list,
		Create: p.create,
		Update: p.update,
		Remove: p.remove,
		GetID: func(row domain.Row) (string, bool) {
			return BuildRowID(row, p.PrimaryKey())
		},
		ToDraft: func(row domain.Row) (crud.Draft, error) {
			return DraftForEdit(row), nil
		},
		UpdatePayload: func(d crud.Draft, _ domain.Row) crud.Draft {
			return UpdatePayload(d, p.PrimaryKey())
		},
	}
	p.table = crud.New(ctx, api, crud.Draft{})
	return p
}

// Table returns the underlying CRUD table.
func (p *Page) Table() *crud.Table[domain.Row, string] {
	return p.table
}

// Entity returns the entity this page browses.
func (p *Page) Entity() Entity {
	return p.entity
}

// PrimaryKey returns the primary-key fields, declared or learned from the backend.
func (p *Page) PrimaryKey() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.primaryKey)
}

// SetPage changes limit and offset and reloads.
func (p *Page) SetPage(ctx context.Context, limit, offset int) error {
	if limit < MinLimit || limit > MaxLimit {
		return domain.NewValidationError("limit must be between %d and %d", MinLimit, MaxLimit)
	}
	if offset < 0 {
		return domain.NewValidationError("offset must not be negative")
	}

	p.mu.Lock()
	p.limit = limit
	p.offset = offset
	p.mu.Unlock()

	return p.table.Load(ctx)
}

// FindRow returns the loaded row whose id is rowID.
func (p *Page) FindRow(rowID string) (domain.Row, bool) {
	pk := p.PrimaryKey()
	for _, row := range p.table.Snapshot().Rows {
		if id, ok := BuildRowID(row, pk); ok && id == rowID {
			return row, true
		}
	}
	return domain.Row{}, false
}

// View returns the current page state.
func (p *Page) View() View {
	state := p.table.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	columns := InferColumns(p.columns, state.Rows)

	ids := make([]*string, len(state.Rows))
	for i, row := range state.Rows {
		if id, ok := BuildRowID(row, p.primaryKey); ok {
			ids[i] = &id
		}
	}

	return View{
		Entity:     p.entity.Name,
		Columns:    columns,
		PrimaryKey: slices.Clone(p.primaryKey),
		Limit:      p.limit,
		Offset:     p.offset,
		Total:      p.total,
		RowIDs:     ids,
		Table:      state,
	}
}

func (p *Page) list(ctx context.Context) ([]domain.Row, error) {
	if p.entity.Direct() {
		res, err := p.client.ResourceRows(ctx, p.entity.Path)
		if err != nil {
			return nil, err
		}
		p.learn(res.Columns, res.PrimaryKeys, len(res.Items))
		return res.Items, nil
	}

	p.mu.Lock()
	limit, offset := p.limit, p.offset
	p.mu.Unlock()

	page, err := p.client.AdminRows(ctx, p.entity.Name, limit, offset)
	if err != nil {
		return nil, err
	}
	p.learn(page.Columns, page.PrimaryKey, page.Total)
	return page.Items, nil
}

// learn records server-declared columns and keys unless the registry declared them.
func (p *Page) learn(columns, primaryKey []string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entity.Columns) == 0 {
		p.columns = slices.Clone(columns)
	}
	if len(p.entity.PrimaryKey) == 0 && len(primaryKey) > 0 {
		p.primaryKey = slices.Clone(primaryKey)
	}
	p.total = total
}

func (p *Page) create(ctx context.Context, payload crud.Draft) error {
	if p.entity.Direct() {
		return p.client.CreateResourceRow(ctx, p.entity.Path, payload)
	}
	_, err := p.client.CreateAdminRow(ctx, p.entity.Name, payload)
	return err
}

func (p *Page) update(ctx context.Context, rowID string, payload crud.Draft) error {
	if p.entity.Direct() {
		keys, err := SplitRowID(rowID, len(p.PrimaryKey()))
		if err != nil {
			return err
		}
		return p.client.UpdateResourceRow(ctx, p.entity.Path, keys, payload)
	}
	_, err := p.client.UpdateAdminRow(ctx, p.entity.Name, rowID, payload)
	return err
}

func (p *Page) remove(ctx context.Context, rowID string) error {
	if p.entity.Direct() {
		keys, err := SplitRowID(rowID, len(p.PrimaryKey()))
		if err != nil {
			return err
		}
		return p.client.DeleteResourceRow(ctx, p.entity.Path, keys)
	}
	return p.client.DeleteAdminRow(ctx, p.entity.Name, rowID)
}
