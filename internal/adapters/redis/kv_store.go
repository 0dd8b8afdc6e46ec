package redis

// Package redis provides the Redis-backed durable token record store.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/folioworks/folio/internal/ports"
)

// DefaultPrefix namespaces every key written by KVStore.
const DefaultPrefix = "folio:"

var _ ports.KVStore = (*KVStore)(nil)

// KVStoreOptions configures KVStore.
type KVStoreOptions struct {
	Prefix string        // Optional: defaults to DefaultPrefix
	TTL    time.Duration // Optional: expire records after this long; zero keeps them
}

// KVStore keeps durable token records in Redis.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewKVStore creates a Redis-backed KVStore.
func NewKVStore(client redis.UniversalClient, opts KVStoreOptions) *KVStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KVStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrNotFound
	}
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil // Nothing to delete
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			full = append(full, s.prefix+k)
		}
	}
	if len(full) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity, used by the health endpoint.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
