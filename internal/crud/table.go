// Package crud implements the list → create/edit/delete → refresh cycle
// shared by every table page of the portal.
package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/devinci/portal/internal/domain"
)

// Mode is the table's current editing state.
type Mode string

// Table modes.
const (
	ModeNone   Mode = "none"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrNotConfirmed is returned by Remove when the caller did not confirm.
var ErrNotConfirmed = errors.New("delete not confirmed")

// API describes what a table can do with its entity.
// List and GetID are required; the mutators may be nil when unsupported.
type API[T any, ID comparable] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, payload Draft) error
	Update func(ctx context.Context, id ID, payload Draft) error
	Remove func(ctx context.Context, id ID) error

	// GetID returns false when the row has no usable identifier.
	GetID func(row T) (ID, bool)

	// ToDraft seeds an edit draft from a row. Defaults to the row's JSON form.
	ToDraft func(row T) (Draft, error)

	// UpdatePayload shapes the normalized draft before Update, for example
	// to drop primary-key fields.
	UpdatePayload func(draft Draft, row T) Draft
}

// State is a point-in-time copy of the table.
type State[T any, ID comparable] struct {
	Rows      []T    `json:"rows"`
	Loading   bool   `json:"loading"`
	Err       string `json:"error,omitempty"`
	Mode      Mode   `json:"mode"`
	EditingID *ID    `json:"editing_id,omitempty"`
	Draft     Draft  `json:"draft"`
}

type settings[T any] struct {
	autoLoad bool
	confirm  func(ctx context.Context, row T) bool
}

// Option configures a Table.
type Option[T any] func(*settings[T])

// WithoutAutoLoad skips the initial Load in New.
func WithoutAutoLoad[T any]() Option[T] {
	return func(s *settings[T]) { s.autoLoad = false }
}

// WithConfirmDelete replaces the default delete confirmation.
func WithConfirmDelete[T any](fn func(ctx context.Context, row T) bool) Option[T] {
	return func(s *settings[T]) { s.confirm = fn }
}

type confirmKey struct{}

// WithConfirmation marks ctx as carrying the caller's delete confirmation.
func WithConfirmation(ctx context.Context) context.Context {
	return context.WithValue(ctx, confirmKey{}, true)
}

// Confirmed reports whether ctx carries a delete confirmation.
func Confirmed(ctx context.Context) bool {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok
}

// Table holds the rows of one entity plus a single create/edit draft.
// Every successful mutation reloads the whole collection.
type Table[T any, ID comparable] struct {
	api     API[T, ID]
	initial Draft
	confirm func(ctx context.Context, row T) bool

	mu         sync.Mutex
	rows       []T
	loading    bool
	err        string
	mode       Mode
	editing    bool
	editingID  ID
	editingRow T
	draft      Draft
}

// New creates a table and loads it unless WithoutAutoLoad is given.
func New[T any, ID comparable](ctx context.Context, api API[T, ID], initial Draft, opts ...Option[T]) *Table[T, ID] {
	s := settings[T]{
		autoLoad: true,
		confirm:  func(ctx context.Context, _ T) bool { return Confirmed(ctx) },
	}
	for _, opt := range opts {
		opt(&s)
	}

	t := &Table[T, ID]{
		api:     api,
		initial: initial.Clone(),
		confirm: s.confirm,
		rows:    []T{},
		mode:    ModeNone,
		draft:   initial.Clone(),
	}
	if s.autoLoad {
		_ = t.Load(ctx)
	}
	return t
}

// Load fetches the full collection. On failure the collection is emptied.
func (t *Table[T, ID]) Load(ctx context.Context) error {
	t.mu.Lock()
	t.err = ""
	t.loading = true
	t.mu.Unlock()

	rows, err := t.api.List(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.err = messageOr(err, "Failed to load")
		t.rows = []T{}
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	t.rows = rows
	return nil
}

// StartCreate drops any edit in progress and opens an empty draft.
func (t *Table[T, ID]) StartCreate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.mode = ModeCreate
}

// StartEdit opens a draft seeded from row. Rows without an id are rejected.
func (t *Table[T, ID]) StartEdit(row T) error {
	id, ok := t.api.GetID(row)
	if !ok {
		t.Fail("Cannot edit: missing id/PK")
		return fmt.Errorf("cannot edit: %w", domain.ErrMissingID)
	}

	toDraft := t.api.ToDraft
	if toDraft == nil {
		toDraft = func(row T) (Draft, error) { return DraftFrom(row) }
	}
	draft, err := toDraft(row)
	if err != nil {
		t.Fail(messageOr(err, "Cannot edit row"))
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.mode = ModeEdit
	t.editing = true
	t.editingID = id
	t.editingRow = row
	t.draft = draft
	return nil
}

// UpdateDraft merges fields into the current draft.
func (t *Table[T, ID]) UpdateDraft(fields map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		t.draft = Draft{}
	}
	t.draft.Merge(fields)
}

// Create submits the normalized draft and reloads on success.
// On failure the rows stay untouched and the error is recorded.
func (t *Table[T, ID]) Create(ctx context.Context) error {
	if t.api.Create == nil {
		return domain.ErrNotSupported
	}

	t.mu.Lock()
	t.err = ""
	payload := Normalize(t.draft)
	t.mu.Unlock()

	if err := t.api.Create(ctx, payload); err != nil {
		t.Fail(messageOr(err, "Create failed"))
		return err
	}

	t.ResetMode()
	return t.Load(ctx)
}

// SaveEdit submits the normalized draft for the row being edited.
// It does nothing when no row is being edited.
func (t *Table[T, ID]) SaveEdit(ctx context.Context) error {
	if t.api.Update == nil {
		return domain.ErrNotSupported
	}

	t.mu.Lock()
	if !t.editing {
		t.mu.Unlock()
		return nil
	}
	t.err = ""
	id := t.editingID
	row := t.editingRow
	payload := Normalize(t.draft)
	t.mu.Unlock()

	if t.api.UpdatePayload != nil {
		payload = t.api.UpdatePayload(payload, row)
	}

	if err := t.api.Update(ctx, id, payload); err != nil {
		t.Fail(messageOr(err, "Update failed"))
		return err
	}

	t.ResetMode()
	return t.Load(ctx)
}

// Remove deletes row after confirmation and reloads.
func (t *Table[T, ID]) Remove(ctx context.Context, row T) error {
	if t.api.Remove == nil {
		return domain.ErrNotSupported
	}

	id, ok := t.api.GetID(row)
	if !ok {
		t.Fail("Cannot delete: missing id/PK")
		return fmt.Errorf("cannot delete: %w", domain.ErrMissingID)
	}

	if !t.confirm(ctx, row) {
		return ErrNotConfirmed
	}

	t.mu.Lock()
	t.err = ""
	t.mu.Unlock()

	if err := t.api.Remove(ctx, id); err != nil {
		t.Fail(messageOr(err, "Delete failed"))
		return err
	}
	return t.Load(ctx)
}

// ResetMode cancels any create or edit in progress.
func (t *Table[T, ID]) ResetMode() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

// Fail records an error message without touching the rows.
func (t *Table[T, ID]) Fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = msg
}

// Mode returns the current mode.
func (t *Table[T, ID]) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Draft returns a copy of the current draft.
func (t *Table[T, ID]) Draft() Draft {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft.Clone()
}

// Editing returns the id and row being edited.
func (t *Table[T, ID]) Editing() (ID, T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editingID, t.editingRow, t.editing
}

// Find returns the loaded row whose id is id.
func (t *Table[T, ID]) Find(id ID) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if rowID, ok := t.api.GetID(row); ok && rowID == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// At returns the loaded row at index.
func (t *Table[T, ID]) At(index int) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.rows) {
		var zero T
		return zero, false
	}
	return t.rows[index], true
}

// Snapshot returns a copy of the table state.
func (t *Table[T, ID]) Snapshot() State[T, ID] {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]T, len(t.rows))
	copy(rows, t.rows)

	s := State[T, ID]{
		Rows:    rows,
		Loading: t.loading,
		Err:     t.err,
		Mode:    t.mode,
		Draft:   t.draft.Clone(),
	}
	if t.editing {
		id := t.editingID
		s.EditingID = &id
	}
	return s
}

func (t *Table[T, ID]) resetLocked() {
	var zeroID ID
	var zeroRow T
	t.mode = ModeNone
	t.editing = false
	t.editingID = zeroID
	t.editingRow = zeroRow
	t.draft = t.initial.Clone()
}

func messageOr(err error, fallback string) string {
	if msg := domain.ErrorMessage(err); msg != "" {
		return msg
	}
	return fallback
}
