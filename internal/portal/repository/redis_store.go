package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

const (
	keyPrefix  = "portal:ws:" // portal:ws:{workspace}:{screen}:...
	DefaultTTL = 24 * time.Hour
)

// RedisStore keeps a screen's records in Redis so several API replicas can
// serve the same workspace. Order lives in a list of IDs, each record under
// its own key, and the ID sequence in a counter. Writes and Touch refresh
// the TTL so abandoned workspaces expire on their own.
type RedisStore[T domain.Record] struct {
	client *redis.Client
	base   string
	ttl    time.Duration
}

func NewRedisStore[T domain.Record](client *redis.Client, workspaceID, screen string, ttl time.Duration) *RedisStore[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore[T]{
		client: client,
		base:   fmt.Sprintf("%s%s:%s", keyPrefix, workspaceID, screen),
		ttl:    ttl,
	}
}

// RedisFactory returns a Factory producing Redis-backed stores.
func RedisFactory[T domain.Record](client *redis.Client, ttl time.Duration) Factory[T] {
	return func(workspaceID, screen string) Store[T] {
		return NewRedisStore[T](client, workspaceID, screen, ttl)
	}
}

func (s *RedisStore[T]) List(ctx context.Context) ([]T, error) {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list record ids: %w", err)
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	out := make([]T, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// record key expired or was removed between LRANGE and MGET
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore[T]) Append(ctx context.Context, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(rec.RecordID()), data, s.ttl)
	pipe.RPush(ctx, s.idsKey(), rec.RecordID())
	pipe.Expire(ctx, s.idsKey(), s.ttl)
	pipe.Expire(ctx, s.seqKey(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) Remove(ctx context.Context, id string) (bool, error) {
	pipe := s.client.TxPipeline()
	removed := pipe.LRem(ctx, s.idsKey(), 1, id)
	pipe.Del(ctx, s.recordKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to remove record: %w", err)
	}
	return removed.Val() > 0, nil
}

func (s *RedisStore[T]) NextID(ctx context.Context) (string, error) {
	n, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return "", fmt.Errorf("failed to reserve record id: %w", err)
	}
	s.client.Expire(ctx, s.seqKey(), s.ttl)
	return strconv.FormatInt(n, 10), nil
}

func (s *RedisStore[T]) Reset(ctx context.Context, seed []T) error {
	old, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list record ids: %w", err)
	}

	cur, err := s.client.Get(ctx, s.seqKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read id sequence: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range old {
		pipe.Del(ctx, s.recordKey(id))
	}
	pipe.Del(ctx, s.idsKey())
	for _, rec := range seed {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal seed record: %w", err)
		}
		pipe.Set(ctx, s.recordKey(rec.RecordID()), data, s.ttl)
		pipe.RPush(ctx, s.idsKey(), rec.RecordID())
	}
	if hi := highestNumericID(seed); hi > cur {
		cur = hi
	}
	pipe.Set(ctx, s.seqKey(), cur, s.ttl)
	pipe.Expire(ctx, s.idsKey(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to reset records: %w", err)
	}
	return nil
}

// Touch pushes back the expiry of every key of this store, so a workspace
// that is only being read keeps its records and its ID sequence.
func (s *RedisStore[T]) Touch(ctx context.Context) error {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list record ids: %w", err)
	}
	pipe := s.client.Pipeline()
	pipe.Expire(ctx, s.idsKey(), s.ttl)
	pipe.Expire(ctx, s.seqKey(), s.ttl)
	for _, id := range ids {
		pipe.Expire(ctx, s.recordKey(id), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to refresh store ttl: %w", err)
	}
	return nil
}

// Drop deletes every key of this store.
func (s *RedisStore[T]) Drop(ctx context.Context) error {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list record ids: %w", err)
	}
	keys := []string{s.idsKey(), s.seqKey()}
	for _, id := range ids {
		keys = append(keys, s.recordKey(id))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to drop store: %w", err)
	}
	return nil
}

func (s *RedisStore[T]) idsKey() string             { return s.base + ":ids" }
func (s *RedisStore[T]) seqKey() string             { return s.base + ":seq" }
func (s *RedisStore[T]) recordKey(id string) string { return s.base + ":rec:" + id }
