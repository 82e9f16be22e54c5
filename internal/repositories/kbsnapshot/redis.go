package kbsnapshot

import (
	"context"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/conquest-editor/internal/redis"
)

const (
	// Key pattern: kb_snapshot:{fingerprint}
	snapshotKeyPrefix = "kb_snapshot:"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for snapshots
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func snapshotKey(key string) string {
	return snapshotKeyPrefix + key
}

// Get retrieves a snapshot, deleting it when it has expired
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	payload, err := r.client.Get(ctx, snapshotKey(input.Key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("snapshot %s not found", input.Key)
		}
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to get snapshot")
	}

	snap, err := Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", input.Key)
	}

	if snap.Expired(r.clock.Now()) {
		if err := r.client.Del(ctx, snapshotKey(input.Key)).Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to delete expired snapshot")
		}
		return nil, errors.NotFoundf("snapshot %s has expired", input.Key)
	}

	return &GetOutput{Snapshot: snap}, nil
}

// Put stores a snapshot. A positive TTL also expires the redis key.
func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}

	snap := newSnapshot(input, r.clock.Now())
	payload, err := Encode(snap)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, snapshotKey(input.Key), payload, input.TTL).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to store snapshot")
	}

	return &PutOutput{Snapshot: snap, Bytes: len(payload)}, nil
}

// Delete removes a snapshot
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	n, err := r.client.Del(ctx, snapshotKey(input.Key)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to delete snapshot")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

// Prune scans every snapshot key and deletes the stale ones
func (r *redisRepository) Prune(ctx context.Context, _ PruneInput) (*PruneOutput, error) {
	now := r.clock.Now()
	out := &PruneOutput{}

	iter := r.client.Scan(ctx, 0, snapshotKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		payload, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to read snapshot")
		}
		out.Checked++
		if !stale(payload, now) {
			continue
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to delete snapshot")
		}
		out.Removed = append(out.Removed, strings.TrimPrefix(key, snapshotKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to scan snapshots")
	}

	sort.Strings(out.Removed)
	return out, nil
}
