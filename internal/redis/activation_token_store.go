package redis

import (
	"context"
	"fmt"
	"time"

	"social-go/internal/auth"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisActivationTokenStore is the Redis implementation of
// auth.ActivationTokenStore. Tokens live under their own key prefix
// with a TTL and are deleted on first redemption.
type redisActivationTokenStore struct {
	client *redis.Client
}

// NewRedisActivationTokenStore creates a new Redis-backed activation token store.
func NewRedisActivationTokenStore(client *redis.Client) auth.ActivationTokenStore {
	return &redisActivationTokenStore{client: client}
}

const activationKeyPrefix = "act:token:"

// Issue stores a fresh random token mapped to the email.
func (r *redisActivationTokenStore) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate activation token: %w", err)
	}

	key := activationKeyPrefix + token.String()
	if err := r.client.Set(ctx, key, email, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store activation token: %w", err)
	}
	return token.String(), nil
}

// Consume atomically fetches and deletes the token. GETDEL keeps two
// racing confirmations from both succeeding.
func (r *redisActivationTokenStore) Consume(ctx context.Context, token string) (string, bool, error) {
	key := activationKeyPrefix + token
	email, err := r.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to redeem activation token: %w", err)
	}
	return email, true, nil
}
