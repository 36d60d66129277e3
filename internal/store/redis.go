package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"maturity.app/assessor/internal/model"
)

const BackendRedis = "redis"

// RedisStore keeps records in a hash keyed by snapshot key plus a sorted set
// for ordering:
//
//	<prefix>:snapshots:seq    INCR counter
//	<prefix>:snapshots:data   HASH key -> JSON record
//	<prefix>:snapshots:index  ZSET key scored by key
//
// The counter survives Clear so keys are never reused.
type RedisStore struct {
	client *redis.Client
	opts   options

	seqKey   string
	dataKey  string
	indexKey string
}

func NewRedisStore(client *redis.Client, prefix string, opts ...Option) *RedisStore {
	if prefix == "" {
		prefix = "assessor"
	}
	return &RedisStore{
		client:   client,
		opts:     buildOptions(opts),
		seqKey:   prefix + ":snapshots:seq",
		dataKey:  prefix + ":snapshots:data",
		indexKey: prefix + ":snapshots:index",
	}
}

func (s *RedisStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	key, err := s.client.Incr(ctx, s.seqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("allocating snapshot key: %w", err)
	}

	rec := model.Snapshot{
		ID:           key,
		Timestamp:    model.FormatTimestamp(s.opts.now()),
		State:        snap.State,
		DerivedScore: copyScore(snap.DerivedScore),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	member := strconv.FormatInt(key, 10)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey, member, data)
		pipe.ZAdd(ctx, s.indexKey, redis.Z{Score: float64(key), Member: member})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	members, err := s.client.ZRevRange(ctx, s.indexKey, 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching latest snapshot key: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNotFound
	}
	data, err := s.client.HGet(ctx, s.dataKey, members[0]).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching latest snapshot: %w", err)
	}
	rec := decodeRedisRecord(members[0], data)
	return &rec, nil
}

func (s *RedisStore) List(ctx context.Context) ([]model.Snapshot, error) {
	members, err := s.client.ZRevRange(ctx, s.indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing snapshot keys: %w", err)
	}
	if len(members) == 0 {
		return []model.Snapshot{}, nil
	}
	values, err := s.client.HMGet(ctx, s.dataKey, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	out := make([]model.Snapshot, 0, len(members))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			// index entry without a record, left by a Clear racing this read
			continue
		}
		out = append(out, decodeRedisRecord(members[i], data))
	}
	return out, nil
}

// Clear deletes the data and index keys in one MULTI/EXEC.
func (s *RedisStore) Clear(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.dataKey, s.indexKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	return nil
}

func (s *RedisStore) Backend() string { return BackendRedis }

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// decodeRedisRecord keeps undecodable payloads as raw State so readers can
// skip them individually.
func decodeRedisRecord(member, data string) model.Snapshot {
	key, _ := strconv.ParseInt(member, 10, 64)
	var rec model.Snapshot
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return model.Snapshot{ID: key, State: data}
	}
	rec.ID = key
	return rec
}
