// Package admin implements the generic entity browser: a registry of
// backend entities, composite row identifiers and a paginated CRUD page.
package admin

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/devinci/portal/internal/domain"
)

// Entity describes one backend collection the admin page can browse.
type Entity struct {
	Name string `yaml:"name" json:"name"`
	// Path addresses the entity as a plain REST resource, e.g. /user_roles.
	// When empty the generic /admin/{entity}/rows API is used.
	Path       string   `yaml:"path,omitempty" json:"path,omitempty"`
	PrimaryKey []string `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	Columns    []string `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// Direct reports whether the entity is addressed by its own resource path.
func (e Entity) Direct() bool {
	return e.Path != ""
}

type registryFile struct {
	Entities []Entity `yaml:"entities"`
}

// Registry maps entity names to their descriptions, keeping registration order.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	entities map[string]Entity
}

// NewRegistry creates a registry holding entities.
func NewRegistry(entities ...Entity) *Registry {
	r := &Registry{entities: make(map[string]Entity)}
	for _, e := range entities {
		r.Register(e)
	}
	return r
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses a YAML registry document:
//
//	entities:
//	  - name: user_roles
//	    path: /user_roles
//	    primary_key: [user_t_name, role_name]
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse admin registry: %w", err)
	}

	r := NewRegistry()
	for i, e := range f.Entities {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("admin registry entry %d has no name", i)
		}
		if _, dup := r.entities[e.Name]; dup {
			return nil, fmt.Errorf("admin registry entity %q declared twice", e.Name)
		}
		if e.Direct() && len(e.PrimaryKey) == 0 {
			return nil, fmt.Errorf("admin registry entity %q has a path but no primary_key", e.Name)
		}
		r.Register(e)
	}
	return r, nil
}

// Register adds or replaces an entity.
func (r *Registry) Register(e Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[e.Name]; !ok {
		r.order = append(r.order, e.Name)
	}
	r.entities[e.Name] = e
}

// Lookup returns the entity called name.
func (r *Registry) Lookup(name string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, name)
	}
	return e, nil
}

// Entities returns all entities in registration order.
func (r *Registry) Entities() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// Names returns entity names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
