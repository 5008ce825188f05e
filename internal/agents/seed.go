package agents

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nepfy/nepfy-backend/internal/logging"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedFile struct {
	Agents []AgentConfig `yaml:"agents"`
}

// ParseSeeds decodes a YAML agent file and validates every entry.
func ParseSeeds(data []byte) ([]AgentConfig, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse agent seeds: %w", err)
	}

	seen := make(map[Key]bool, len(f.Agents))
	for _, cfg := range f.Agents {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("agent %s: %w", cfg.Key(), err)
		}
		if seen[cfg.Key()] {
			return nil, fmt.Errorf("agent %s defined twice", cfg.Key())
		}
		seen[cfg.Key()] = true
	}
	sortConfigs(f.Agents)
	return f.Agents, nil
}

// DefaultSeeds returns the agents bundled with the binary.
func DefaultSeeds() ([]AgentConfig, error) {
	return ParseSeeds(defaultsYAML)
}

// Seed writes cfgs into store. Existing agents are kept unless overwrite
// is set. It returns how many agents were written.
func Seed(ctx context.Context, store Store, cfgs []AgentConfig, overwrite bool) (int, error) {
	existing := map[Key]bool{}
	if !overwrite {
		current, err := store.Load(ctx)
		if err != nil {
			return 0, err
		}
		for _, cfg := range current {
			existing[cfg.Key()] = true
		}
	}

	written := 0
	for _, cfg := range cfgs {
		if existing[cfg.Key()] {
			continue
		}
		if err := store.Save(ctx, cfg); err != nil {
			return written, err
		}
		written++
	}

	logging.FromContext(ctx).Info("agents seeded", "written", written, "skipped", len(cfgs)-written)
	return written, nil
}
