// Package file хранит сессии портала в JSON файле на диске.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/devinci/portal/internal/domain"
)

// SessionRepository реализует repository.SessionRepository поверх JSON файла
type SessionRepository struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewSessionRepository создает репозиторий, хранящий сессии в файле path
func NewSessionRepository(path string) *SessionRepository {
	return &SessionRepository{path: path, now: time.Now}
}

// Get возвращает сессию по ID; истекшие сессии считаются отсутствующими
func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.read()
	if err != nil {
		return nil, err
	}

	s, ok := sessions[id]
	if !ok || s.Expired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Save записывает сессию и заодно вычищает истекшие
func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.read()
	if err != nil {
		return err
	}

	now := r.now()
	for id, s := range sessions {
		if s.Expired(now) {
			delete(sessions, id)
		}
	}
	sessions[session.ID] = session

	return r.write(sessions)
}

// Delete удаляет сессию по ID
func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := sessions[id]; !ok {
		return nil
	}
	delete(sessions, id)

	return r.write(sessions)
}

func (r *SessionRepository) read() (map[string]*domain.Session, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]*domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	sessions := map[string]*domain.Session{}
	if len(data) == 0 {
		return sessions, nil
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return sessions, nil
}

// write сначала пишет во временный файл и затем переименовывает его,
// чтобы читатель никогда не увидел наполовину записанный JSON
func (r *SessionRepository) write(sessions map[string]*domain.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sessions-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to chmod session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
