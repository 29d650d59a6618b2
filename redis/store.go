package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/locus/resolver"
)

// Store adapts a Client to resolver.CacheStore.
type Store struct {
	client *Client
	ttl    time.Duration
}

var _ resolver.CacheStore = (*Store)(nil)

// NewStore creates a Store that writes every entry with the given ttl.
// A zero ttl keeps entries until they are deleted.
func NewStore(client *Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Get returns the value under key, reporting a missing key as absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key)
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key)
}
