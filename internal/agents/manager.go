package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/nepfy/nepfy-backend/internal/logging"
)

// Manager serves agent lookups from an in-memory snapshot of a Store.
// Writes go to the store first and then update the snapshot.
type Manager struct {
	store Store

	mu     sync.RWMutex
	agents map[Key]AgentConfig
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, agents: map[Key]AgentConfig{}}
}

// Refresh replaces the snapshot with the store's current contents.
func (m *Manager) Refresh(ctx context.Context) error {
	cfgs, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	next := make(map[Key]AgentConfig, len(cfgs))
	for _, cfg := range cfgs {
		next[cfg.Key()] = cfg
	}

	m.mu.Lock()
	m.agents = next
	m.mu.Unlock()

	logging.FromContext(ctx).Info("agents loaded", "count", len(next))
	return nil
}

// Get returns the agent for the service and template, falling back to the
// service's base agent.
func (m *Manager) Get(serviceType, templateType string) (AgentConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if cfg, ok := m.agents[Key{ServiceType: serviceType, TemplateType: templateType}]; ok {
		return cfg, nil
	}
	if cfg, ok := m.agents[Key{ServiceType: serviceType, TemplateType: BaseTemplate}]; ok {
		return cfg, nil
	}
	return AgentConfig{}, fmt.Errorf("%w: %s:%s", ErrNotFound, serviceType, templateType)
}

// List returns a sorted copy of the snapshot.
func (m *Manager) List() []AgentConfig {
	m.mu.RLock()
	out := make([]AgentConfig, 0, len(m.agents))
	for _, cfg := range m.agents {
		out = append(out, cfg)
	}
	m.mu.RUnlock()

	sortConfigs(out)
	return out
}

// Set validates and stores cfg.
func (m *Manager) Set(ctx context.Context, cfg AgentConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.store.Save(ctx, cfg); err != nil {
		return err
	}

	m.mu.Lock()
	m.agents[cfg.Key()] = cfg
	m.mu.Unlock()
	return nil
}

func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.agents, key)
	m.mu.Unlock()
	return nil
}
