package bootstrap

import (
	"context"
	"fmt"

	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

// LoadAgents seeds the built-in agent configs that are missing from the
// store and loads the result into a manager.
func LoadAgents(ctx context.Context, store agents.Store) (*agents.Manager, error) {
	seeds, err := agents.DefaultSeeds()
	if err != nil {
		return nil, fmt.Errorf("default agents: %w", err)
	}

	n, err := agents.Seed(ctx, store, seeds, false)
	if err != nil {
		return nil, fmt.Errorf("seed agents: %w", err)
	}
	if n > 0 {
		logging.FromContext(ctx).Info("seeded default agents", "count", n)
	}

	m := agents.NewManager(store)
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
