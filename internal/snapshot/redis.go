package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartSnapshotKey(deviceID, slot string) string
}

// RedisStorage keeps snapshots under ormee:cart:<device> with an optional TTL
// that is refreshed on every write.
type RedisStorage struct {
	client redisStore
	ttl    time.Duration
}

func NewRedisStorage(client redisStore, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, deviceID, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.client.CartSnapshotKey(deviceID, key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return []byte(value), nil
}

func (s *RedisStorage) Save(ctx context.Context, deviceID, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.client.CartSnapshotKey(deviceID, key), string(payload), s.ttl); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}
