package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an optional distributed NonceStore backend for Session,
// used when the host process is not the sole holder of used-nonce state
// (horizontally scaled signing gates). The in-memory store
// (MemoryStore) remains the default per spec §6's "Persistence: None
// in-core" — Redis is an explicit opt-in, never required.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. keyPrefix namespaces nonce
// keys from anything else the caller stores in the same Redis instance.
// ttl bounds how long a consumed-nonce record is retained; it should
// exceed the longest-lived session this store backs.
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix, ttl: ttl}
}

// TryInsert uses SETNX, Redis's atomic set-if-absent primitive, so the
// check-and-insert stays linearizable across every gate instance
// sharing this Redis store (spec §5's linearizability requirement,
// generalized across processes).
func (r *RedisStore) TryInsert(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, err := r.client.SetNX(ctx, r.prefix+key, "1", r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("session: redis setnx failed: %w", err)
	}
	return ok, nil
}
