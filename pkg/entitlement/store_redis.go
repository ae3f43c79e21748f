package entitlement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash RedisStore writes when Key is empty.
const DefaultRedisKey = "licensor:entitlement"

// RedisStore keeps state in a Redis hash. Several processes of one
// installation may share it: each Manager picks up the others' writes when it
// reloads, which Activate, Deactivate and MaybeCheck do before changing
// anything. IsPro answers from memory until then.
type RedisStore struct {
	Client redis.Cmdable
	Key    string
}

func (r RedisStore) key() string {
	if r.Key == "" {
		return DefaultRedisKey
	}
	return r.Key
}

func (r RedisStore) Load(ctx context.Context) (State, error) {
	fields, err := r.Client.HGetAll(ctx, r.key()).Result()
	if err != nil {
		return State{}, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return State{}, ErrNoState
	}

	s := State{
		KeyHash: fields["key_hash"],
		Status:  fields["status"],
	}
	if s.ExpiresAt, err = parseInt(fields["expires_at"]); err != nil {
		return State{}, fmt.Errorf("expires_at: %w", err)
	}
	if s.LastCheck, err = parseInt(fields["last_check"]); err != nil {
		return State{}, fmt.Errorf("last_check: %w", err)
	}
	return s, nil
}

func (r RedisStore) Save(ctx context.Context, s State) error {
	err := r.Client.HSet(ctx, r.key(),
		"key_hash", s.KeyHash,
		"status", s.Status,
		"expires_at", s.ExpiresAt,
		"last_check", s.LastCheck,
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func parseInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
