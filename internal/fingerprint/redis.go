package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists digests in Redis so duplicate detection survives
// restarts and spans replicas. Entries expire after the retention window;
// a digest older than that is treated as unseen.
type RedisStore struct {
	client    redis.UniversalClient
	retention time.Duration
}

const keyPrefix = "fingerprint:"

// NewRedisStore creates a Redis-backed fingerprint store. A zero retention
// keeps entries forever.
func NewRedisStore(client redis.UniversalClient, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func (s *RedisStore) Lookup(ctx context.Context, digest string) (*Entry, error) {
	raw, err := s.client.Get(ctx, keyPrefix+digest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fingerprint lookup: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode fingerprint entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Register(ctx context.Context, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode fingerprint entry: %w", err)
	}
	// NX keeps the first decision a digest was seen in.
	if err := s.client.SetNX(ctx, keyPrefix+entry.Digest, raw, s.retention).Err(); err != nil {
		return fmt.Errorf("fingerprint register: %w", err)
	}
	return nil
}
