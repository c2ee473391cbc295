package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/config"
	"github.com/devinci/portal/internal/domain"
)

// fakeUser описывает учетную запись фейкового backend
type fakeUser struct {
	password string
	team     string
	roles    []string
}

// fakeBackend имитирует внешний REST API в памяти
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]fakeUser
	messages []domain.Message
	duties   []map[string]any
	busy     map[string]int
	rows     []map[string]any
	nextID   int64
	logouts  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]fakeUser{
			"u1":      {password: "pw", team: "core"},
			"manager": {password: "pw", team: "ops", roles: []string{domain.RoleCleaningManager}},
			"root":    {password: "pw", roles: []string{domain.RoleAdmin}},
		},
		busy: map[string]int{},
		rows: []map[string]any{
			{"t_name": "u1", "name": "User One"},
			{"t_name": "u2", "name": "User Two"},
		},
		nextID: 100,
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	if path == "/auth/login" {
		f.login(w, r)
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !strings.HasPrefix(token, "tok-") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
		return
	}

	switch {
	case path == "/auth/logout":
		f.logouts = append(f.logouts, token)
		w.WriteHeader(http.StatusNoContent)
	case path == "/messages" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"items": f.messages})
	case path == "/messages" && r.Method == http.MethodPost:
		var in domain.MessageCreate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		f.nextID++
		msg := domain.Message{ID: f.nextID, Title: in.Title, Message: in.Message, UserTName: in.UserTName, DateTime: in.DateTime}
		f.messages = append(f.messages, msg)
		writeJSON(w, msg)
	case path == "/cleaning_duties" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"items": f.duties})
	case path == "/cleaning_duties" && r.Method == http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		body["id"] = f.nextID
		f.duties = append(f.duties, body)
		writeJSON(w, body)
	case path == "/user_events":
		events := make([]domain.UserEvent, f.busy[r.URL.Query().Get("username")])
		writeJSON(w, events)
	case path == "/admin/entities":
		writeJSON(w, map[string]any{"entities": []string{"users"}})
	case path == "/admin/users/rows" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{
			"items":       f.rows,
			"limit":       50,
			"offset":      0,
			"total":       len(f.rows),
			"columns":     []string{"t_name", "name"},
			"primary_key": []string{"t_name"},
		})
	case strings.HasPrefix(path, "/admin/users/rows/") && r.Method == http.MethodDelete:
		key := strings.TrimPrefix(path, "/admin/users/rows/")
		for i, row := range f.rows {
			if row["t_name"] == key {
				f.rows = append(f.rows[:i], f.rows[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)

	user, ok := f.users[creds.TName]
	if !ok || user.password != creds.Password {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
		return
	}

	result := domain.LoginResult{
		TName:       creds.TName,
		Name:        strings.ToUpper(creds.TName),
		Roles:       user.roles,
		AccessToken: "tok-" + creds.TName,
		TokenType:   "bearer",
	}
	if user.team != "" {
		team := user.team
		result.TeamName = &team
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// TestEnvironment содержит все ресурсы, необходимые для сквозных тестов
type TestEnvironment struct {
	App     *App
	Backend *fakeBackend
	Server  *httptest.Server
	Config  *config.Config
}

// SetupTestEnvironment поднимает фейковый backend и портал с файловым хранилищем сессий
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	return setupWithConfig(t, func(*config.Config) {})
}

func setupWithConfig(t *testing.T, adjust func(*config.Config)) *TestEnvironment {
	t.Helper()

	fake := newFakeBackend()
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: "0", CORSOrigins: []string{"*"}},
		Backend: config.BackendConfig{URL: upstream.URL, BasePath: "/api", Timeout: 5 * time.Second},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
		Storage: config.StorageConfig{Driver: config.StoreFile, SessionFile: filepath.Join(t.TempDir(), "sessions.json")},
		Admin:   config.AdminConfig{PageSize: 50},
		Log:     config.LogConfig{Level: "error"},
	}
	adjust(cfg)

	application, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, application.Initialize(context.Background()))
	t.Cleanup(func() {
		_ = application.Shutdown(context.Background())
	})

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return &TestEnvironment{App: application, Backend: fake, Server: srv, Config: cfg}
}

// MakeRequest выполняет HTTP запрос к порталу
func (env *TestEnvironment) MakeRequest(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// Login входит под пользователем и возвращает токен портала
func (env *TestEnvironment) Login(t *testing.T, name string) string {
	t.Helper()

	status, body := env.MakeRequest(t, http.MethodPost, "/auth/login", "", domain.Credentials{TName: name, Password: "pw"})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}
