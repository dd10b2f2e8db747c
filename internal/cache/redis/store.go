package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
)

// Store keeps cache slots as plain Redis strings under a per-app key prefix.
// Slots never expire; they mirror device storage.
type Store struct {
	url    string
	prefix string
	client *goredis.Client
}

func NewStore(redisURL string) *Store {
	return &Store{url: redisURL, prefix: constants.AppName + ":"}
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Init(ctx context.Context) error {
	if s.client == nil {
		opts, err := goredis.ParseURL(s.url)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		s.client = goredis.NewClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", errors.New("cache not initialized")
	}
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.client == nil {
		return errors.New("cache not initialized")
	}
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return errors.New("cache not initialized")
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) Describe() string {
	if s.client != nil {
		return "redis://" + s.client.Options().Addr
	}
	return "redis"
}
