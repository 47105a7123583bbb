package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect parses addr (either host:port or a redis:// URL) and pings the
// server before returning the store.
func Connect(ctx context.Context, addr string) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("redis connected")
	return NewRedisStore(client), nil
}

func (s *RedisStore) GetItem(ctx context.Context, name string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not read %s: %w", name, err)
	}
	return value, true, nil
}

// SetItem stores value without expiry; the blob lives until it is
// overwritten or removed.
func (s *RedisStore) SetItem(ctx context.Context, name string, value []byte) error {
	if err := s.client.Set(ctx, name, value, 0).Err(); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, name).Err(); err != nil {
		return fmt.Errorf("could not remove %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
