// Package jobs stores import job records in Redis so every replica of
// the service can answer job status queries.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/taller/internal/config"
	"github.com/JonMunkholm/taller/internal/core"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces job records in a shared Redis.
const KeyPrefix = "taller:job:"

// RedisStore implements core.JobStore. Records expire after ttl, which
// replaces the in-memory sweeper.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a PING.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = core.DefaultHistoryTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Save writes rec, resetting its expiry.
func (s *RedisStore) Save(ctx context.Context, rec core.JobRecord) error {
	value, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, jobKey(rec.ID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving job %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns core.ErrJobNotFound for unknown or expired ids.
func (s *RedisStore) Get(ctx context.Context, id string) (core.JobRecord, error) {
	value, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.JobRecord{}, core.ErrJobNotFound
	}
	if err != nil {
		return core.JobRecord{}, fmt.Errorf("loading job %s: %w", id, err)
	}
	return decodeRecord(value)
}

// Ping checks the connection, for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func jobKey(id string) string { return KeyPrefix + id }

func encodeRecord(rec core.JobRecord) ([]byte, error) {
	if rec.Errores == nil {
		rec.Errores = []string{}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding job %s: %w", rec.ID, err)
	}
	return b, nil
}

func decodeRecord(b []byte) (core.JobRecord, error) {
	var rec core.JobRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return core.JobRecord{}, fmt.Errorf("decoding job record: %w", err)
	}
	return rec, nil
}
