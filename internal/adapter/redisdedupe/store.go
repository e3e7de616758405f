// Package redisdedupe remembers which crisis alerts were already sent.
package redisdedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "forecast-digest:crisis:"

// redisClient is the subset of *redis.Client used by Store.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Store implements notify.Deduper on top of Redis SETNX with a TTL.
type Store struct {
	client redisClient
	ttl    time.Duration
}

// New connects to the Redis instance at url. Entries expire after ttl.
func New(url string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Store{client: redis.NewClient(opt), ttl: ttl}, nil
}

// FirstSeen claims id and reports whether this call was the first to do so.
func (s *Store) FirstSeen(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+id, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", id, err)
	}
	return ok, nil
}

// Forget deletes the claim on id.
func (s *Store) Forget(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}

// CheckReadiness pings Redis.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
