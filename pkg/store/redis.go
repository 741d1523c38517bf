package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "storyloom:story:"
	redisIndexKey  = "storyloom:stories"
)

// RedisStore persists stories in Redis. Records are stored as JSON blobs
// under a per-slug key, with a set index for listings.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string // host:port, e.g. "localhost:6379"
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a
// ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Save upserts a record by slug.
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}

	if old, err := s.Load(ctx, rec.Slug); err == nil {
		rec.ID = old.ID
		rec.CreatedAt = old.CreatedAt
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+rec.Slug, data, 0)
	pipe.SAdd(ctx, redisIndexKey, rec.Slug)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Load retrieves a record by slug.
func (s *RedisStore) Load(ctx context.Context, slug string) (*Record, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", slug, err)
	}
	return &rec, nil
}

// Delete removes a record by slug.
func (s *RedisStore) Delete(ctx context.Context, slug string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, redisKeyPrefix+slug)
	pipe.SRem(ctx, redisIndexKey, slug)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns summaries for every slug in the index, most recently
// updated first. Slugs whose record is missing or unparseable are
// skipped.
func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	slugs, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var infos []Info
	for _, slug := range slugs {
		rec, err := s.Load(ctx, slug)
		if err != nil {
			continue
		}
		infos = append(infos, rec.info())
	}
	sortInfos(infos)
	return infos, nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
