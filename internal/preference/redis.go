// AngelaMos | 2026
// redis.go

package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/automarket/internal/market"
)

// RedisStore is the long-lived primary store: one key per browser profile,
// never expiring.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, prefix, profileID string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:%s", prefix, profileID),
	}
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) Read(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", s.key, err)
	}
	return val, nil
}

func (s *RedisStore) Write(ctx context.Context, code market.Code) error {
	if err := s.client.Set(ctx, s.key, code.String(), 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}
