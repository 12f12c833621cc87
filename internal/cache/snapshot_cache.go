// Package cache holds the complaint snapshot cache. Writers invalidate it
// explicitly; readers repopulate it on the next load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

const (
	snapshotKey   = "complaints:snapshot"
	generationKey = "complaints:snapshot:gen"
)

var (
	// ErrMiss reports that no snapshot is cached.
	ErrMiss = errors.New("snapshot cache miss")
	// ErrStale reports a Set whose generation was overtaken by an Invalidate.
	ErrStale = errors.New("snapshot generation changed")
)

// Entry is a cached complaint collection and the time it was read from the store.
type Entry struct {
	Complaints []domain.Complaint `json:"complaints"`
	LoadedAt   time.Time          `json:"loaded_at"`
}

// SnapshotCache stores the full complaint collection between writes.
//
// Every Invalidate bumps the generation. Readers take the generation before
// reading the store and pass it to Set, which refuses to store the entry with
// ErrStale when a write invalidated the cache in between.
type SnapshotCache interface {
	Get(ctx context.Context) (*Entry, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, entry Entry) error
	Invalidate(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotCache caches snapshots as one JSON value with a TTL.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	return &redisSnapshotCache{client: client, ttl: ttl}
}

func (c *redisSnapshotCache) Get(ctx context.Context) (*Entry, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *redisSnapshotCache) Generation(ctx context.Context) (int64, error) {
	return generationOf(c.client.Get(ctx, generationKey))
}

func (c *redisSnapshotCache) Set(ctx context.Context, generation int64, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generationOf(tx.Get(ctx, generationKey))
		if err != nil {
			return err
		}
		if current != generation {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, snapshotKey, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, snapshotKey)
		return nil
	})
	return err
}

func generationOf(cmd *redis.StringCmd) (int64, error) {
	generation, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Noop never caches; every load reaches the store.
type Noop struct{}

func (Noop) Get(context.Context) (*Entry, error) { return nil, ErrMiss }

func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

func (Noop) Set(context.Context, int64, Entry) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
