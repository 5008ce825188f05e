package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const agentsHashKey = "nepfy:agents" // hash of "{service}:{template}" -> AgentConfig JSON

// ErrNotFound is returned when no agent matches a key.
var ErrNotFound = errors.New("agent not found")

// Store persists agent configurations.
type Store interface {
	Load(ctx context.Context) ([]AgentConfig, error)
	Save(ctx context.Context, cfg AgentConfig) error
	Delete(ctx context.Context, key Key) error
}

// RedisStore keeps all agents in a single Redis hash.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a RedisStore on the default hash key.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, key: agentsHashKey}
}

// Load returns every stored agent sorted by key. Entries that fail to
// decode are reported as an error rather than skipped.
func (s *RedisStore) Load(ctx context.Context) ([]AgentConfig, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}

	out := make([]AgentConfig, 0, len(raw))
	for field, value := range raw {
		var cfg AgentConfig
		if err := json.Unmarshal([]byte(value), &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode agent %s: %w", field, err)
		}
		out = append(out, cfg)
	}
	sortConfigs(out)
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, cfg AgentConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, cfg.Key().String(), data).Err(); err != nil {
		return fmt.Errorf("failed to save agent %s: %w", cfg.Key(), err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	n, err := s.client.HDel(ctx, s.key, key.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to delete agent %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
