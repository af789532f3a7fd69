package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cvbot:session:"

// RedisRepo implements Repo on Redis. Sessions are stored as JSON values and
// indexed in a sorted set by last-interaction time for the idle sweep.
type RedisRepo struct {
	client *backend.Client
}

// NewRedisRepo creates a repo on a fresh Redis client.
func NewRedisRepo(addr, password string, db int) *RedisRepo {
	return &RedisRepo{client: backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// NewRedisRepoFromClient creates a repo on an existing client.
func NewRedisRepoFromClient(client *backend.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func redisKey(identity string) string {
	return redisKeyPrefix + identity
}

func redisIndexKey() string {
	return redisKeyPrefix + "index"
}

// Get returns the session for the identity.
func (r *RedisRepo) Get(ctx context.Context, identity string) (Session, error) {
	raw, err := r.client.Get(ctx, redisKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

// Save upserts the session and refreshes its idle-index score.
func (r *RedisRepo) Save(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, redisKey(s.Identity), raw, 0)
	pipe.ZAdd(ctx, redisIndexKey(), backend.Z{
		Score:  float64(s.LastInteraction.Unix()),
		Member: s.Identity,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

// ListIdle returns unreminded sessions idle beyond the cutoff.
func (r *RedisRepo) ListIdle(ctx context.Context, cutoff time.Time) ([]Session, error) {
	identities, err := r.client.ZRangeByScore(ctx, redisIndexKey(), &backend.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("(%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis idle range: %w", err)
	}

	var out []Session
	for _, identity := range identities {
		s, err := r.Get(ctx, identity)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if s.ReminderSent || s.State == InitialState || s.State == CompletedState {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// MarkReminded flips the reminder flag.
func (r *RedisRepo) MarkReminded(ctx context.Context, identity string) error {
	s, err := r.Get(ctx, identity)
	if err != nil {
		return err
	}
	s.ReminderSent = true
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// Plain SET: the index score must not move, or the sweep would treat the
	// reminder itself as activity.
	if err := r.client.Set(ctx, redisKey(identity), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
