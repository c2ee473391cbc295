package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

type note struct {
	ID   *int64 `json:"id"`
	Text string `json:"text"`
}

func noteID(v int64) *int64 { return &v }

type noteStore struct {
	mu     sync.Mutex
	notes  []note
	nextID int64
}

func (s *noteStore) api() crud.API[note, int64] {
	return crud.API[note, int64]{
		List: func(context.Context) ([]note, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return append([]note(nil), s.notes...), nil
		},
		Create: func(_ context.Context, d crud.Draft) error {
			if d.String("text") == "" {
				return domain.NewValidationError("text is required")
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.nextID++
			s.notes = append(s.notes, note{ID: noteID(s.nextID), Text: d.String("text")})
			return nil
		},
		Update: func(_ context.Context, id int64, d crud.Draft) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i := range s.notes {
				if s.notes[i].ID != nil && *s.notes[i].ID == id {
					s.notes[i].Text = d.String("text")
				}
			}
			return nil
		},
		Remove: func(_ context.Context, id int64) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i := range s.notes {
				if s.notes[i].ID != nil && *s.notes[i].ID == id {
					s.notes = append(s.notes[:i], s.notes[i+1:]...)
					break
				}
			}
			return nil
		},
		GetID: func(n note) (int64, bool) {
			if n.ID == nil {
				return 0, false
			}
			return *n.ID, true
		},
	}
}

type noteState struct {
	Rows      []note         `json:"rows"`
	Err       string         `json:"error"`
	Mode      string         `json:"mode"`
	EditingID *int64         `json:"editing_id"`
	Draft     map[string]any `json:"draft"`
}

func newNotesServer(t *testing.T, canWrite bool) (*httptest.Server, *noteStore) {
	t.Helper()
	store := &noteStore{notes: []note{{ID: noteID(1), Text: "first"}, {Text: "orphan"}}, nextID: 1}
	table := crud.New(context.Background(), store.api(), crud.Draft{"text": ""})

	page := &TablePage[note, int64]{
		Table:    func(*http.Request) (*crud.Table[note, int64], error) { return table, nil },
		ParseID:  ParseInt64ID,
		CanWrite: func(*http.Request) bool { return canWrite },
	}
	srv := httptest.NewServer(page.Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func TestTablePage_CreateFlow(t *testing.T) {
	srv, _ := newNotesServer(t, true)

	status, body := call(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, status)
	var state noteState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Len(t, state.Rows, 2)
	assert.Equal(t, "none", state.Mode)

	status, _ = call(t, srv, http.MethodPost, "/submit", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, srv, http.MethodPost, "/create", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "create", state.Mode)

	status, _ = call(t, srv, http.MethodPatch, "/draft", `{"text":"  second  "}`)
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, srv, http.MethodPost, "/submit", "")
	require.Equal(t, http.StatusOK, status, string(body))
	state = noteState{}
	require.NoError(t, json.Unmarshal(body, &state))
	require.Len(t, state.Rows, 3)
	assert.Equal(t, "second", state.Rows[2].Text)
	assert.Equal(t, "none", state.Mode)
}

func TestTablePage_CreateValidationKeepsMode(t *testing.T) {
	srv, _ := newNotesServer(t, true)

	call(t, srv, http.MethodPost, "/create", "")
	status, body := call(t, srv, http.MethodPost, "/submit", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "text is required")

	_, body = call(t, srv, http.MethodGet, "/", "")
	var state noteState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "create", state.Mode)
	assert.Equal(t, "text is required", state.Err)
	assert.Len(t, state.Rows, 2)

	_, body = call(t, srv, http.MethodPost, "/cancel", "")
	state = noteState{}
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "none", state.Mode)
}

func TestTablePage_EditFlow(t *testing.T) {
	srv, store := newNotesServer(t, true)

	status, body := call(t, srv, http.MethodPost, "/edit?id=1", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var state noteState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "edit", state.Mode)
	require.NotNil(t, state.EditingID)
	assert.Equal(t, int64(1), *state.EditingID)
	assert.Equal(t, "first", state.Draft["text"])

	status, _ = call(t, srv, http.MethodPost, "/submit", `{"text":"changed"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "changed", store.notes[0].Text)

	status, _ = call(t, srv, http.MethodPost, "/edit?id=42", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, srv, http.MethodPost, "/edit?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPost, "/edit", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTablePage_RowsWithoutIDAreRejected(t *testing.T) {
	srv, _ := newNotesServer(t, true)

	status, body := call(t, srv, http.MethodPost, "/edit?index=1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "missing id/PK")

	status, body = call(t, srv, http.MethodPost, "/delete?index=1&confirm=true", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "missing id/PK")

	_, body = call(t, srv, http.MethodGet, "/", "")
	var state noteState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "Cannot delete: missing id/PK", state.Err)

	status, _ = call(t, srv, http.MethodPost, "/delete?index=7", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTablePage_DeleteNeedsConfirmation(t *testing.T) {
	srv, store := newNotesServer(t, true)

	status, _ := call(t, srv, http.MethodPost, "/delete?id=1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, store.notes, 2)

	status, body := call(t, srv, http.MethodPost, "/delete?id=1&confirm=true", "")
	require.Equal(t, http.StatusOK, status)
	var state noteState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Len(t, state.Rows, 1)
}

func TestTablePage_WriteGate(t *testing.T) {
	srv, _ := newNotesServer(t, false)

	status, _ := call(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, srv, http.MethodPost, "/refresh", "")
	assert.Equal(t, http.StatusOK, status)

	for _, path := range []string{"/create", "/edit?id=1", "/submit", "/cancel", "/delete?id=1&confirm=true"} {
		status, body := call(t, srv, http.MethodPost, path, "")
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Contains(t, string(body), string(domain.CodeForbidden))
	}
	status, _ = call(t, srv, http.MethodPatch, "/draft", `{"text":"x"}`)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestTablePage_InvalidBody(t *testing.T) {
	srv, _ := newNotesServer(t, true)

	status, _ := call(t, srv, http.MethodPatch, "/draft", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPatch, "/draft", "")
	assert.Equal(t, http.StatusBadRequest, status)
}
