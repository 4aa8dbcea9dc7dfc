package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tunelink/oauth2-device-client/internal/token"
)

// defaultRedisKey is the key used when none is configured.
const defaultRedisKey = "oauth2:token"

// RedisStore persists the token record under a single Redis key, for daemon
// deployments where the token file would not survive the host. The record
// carries its own expiry, so the key is stored without TTL.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store. An empty key selects the
// default.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Save stores the serialized record.
func (s *RedisStore) Save(ctx context.Context, rec *token.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling token record: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving token record: %w", err)
	}

	slog.Info("token record saved",
		"key", s.key,
		"expires_at", rec.ExpiresAt,
	)
	return nil
}

// Load retrieves and decodes the record.
func (s *RedisStore) Load(ctx context.Context) (*token.Record, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.key)
		}
		return nil, fmt.Errorf("getting token record: %w", err)
	}

	var rec token.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &rec, nil
}
