package admin

import (
	"context"
	"errors"
	"sync"

	"github.com/devinci/portal/internal/domain"
)

// Browser resolves entities from a configured registry or, when none was
// configured, from the list the backend provides.
type Browser struct {
	client   Client
	registry *Registry
	static   bool

	mu         sync.Mutex
	discovered bool
}

// NewBrowser creates a Browser. A nil or empty registry means the entity
// list is discovered from the backend on first use.
func NewBrowser(client Client, registry *Registry) *Browser {
	static := registry != nil && registry.Len() > 0
	if registry == nil {
		registry = NewRegistry()
	}
	return &Browser{client: client, registry: registry, static: static}
}

// Entities returns the browsable entities.
func (b *Browser) Entities(ctx context.Context) ([]Entity, error) {
	if err := b.discover(ctx, false); err != nil {
		return nil, err
	}
	return b.registry.Entities(), nil
}

// Entity returns the entity called name. An unknown name triggers one
// fresh discovery before failing with domain.ErrUnknownEntity.
func (b *Browser) Entity(ctx context.Context, name string) (Entity, error) {
	if err := b.discover(ctx, false); err != nil {
		return Entity{}, err
	}
	e, err := b.registry.Lookup(name)
	if err == nil || !errors.Is(err, domain.ErrUnknownEntity) || b.static {
		return e, err
	}

	if err := b.discover(ctx, true); err != nil {
		return Entity{}, err
	}
	return b.registry.Lookup(name)
}

func (b *Browser) discover(ctx context.Context, force bool) error {
	if b.static {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.discovered && !force {
		return nil
	}

	names, err := b.client.AdminEntities(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := b.registry.Lookup(name); err == nil {
			continue
		}
		b.registry.Register(Entity{Name: name})
	}
	b.discovered = true
	return nil
}
