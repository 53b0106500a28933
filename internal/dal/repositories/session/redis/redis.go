package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// RedisSessionRepository keeps one token slot and one identity slot per
// session. The two slots are written in one pipeline and deleted in one
// pipeline so they never diverge.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func tokenKey(tokenID string) string {
	return "session:token:" + tokenID
}

func identityKey(tokenID string) string {
	return "session:identity:" + tokenID
}

// Store writes both session slots with the given TTL.
func (r *RedisSessionRepository) Store(ctx context.Context, tokenID string, u user.User, ttl time.Duration) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(tokenID), "1", ttl)
	pipe.Set(ctx, identityKey(tokenID), payload, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Get resolves a token to its identity. A missing or expired session maps to
// ErrSessionNotFound.
func (r *RedisSessionRepository) Get(ctx context.Context, tokenID string) (user.User, error) {
	payload, err := r.client.Get(ctx, identityKey(tokenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return user.User{}, ErrSessionNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get session: %w", err)
	}

	var u user.User
	if err := json.Unmarshal(payload, &u); err != nil {
		return user.User{}, fmt.Errorf("failed to unmarshal identity: %w", err)
	}

	return u, nil
}

// Delete clears both session slots. Deleting an absent session is not an
// error; logout has no failure path.
func (r *RedisSessionRepository) Delete(ctx context.Context, tokenID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(tokenID))
	pipe.Del(ctx, identityKey(tokenID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
