package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token is absent or expired.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore holds refresh tokens keyed by their opaque value.
// Expiry is delegated to the store's TTL, so expired tokens simply stop
// resolving.
type RefreshTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (userID string, err error)
	Delete(ctx context.Context, token string) error
}

type refreshTokenRedisStore struct {
	client *redis.Client
}

// NewRefreshTokenRedisStore connects to Redis and verifies the
// connection before returning the store.
func NewRefreshTokenRedisStore(addr, password string, db int) (RefreshTokenStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &refreshTokenRedisStore{client: rdb}, nil
}

func tokenKey(token string) string {
	return "refresh_token:" + token
}

func (s *refreshTokenRedisStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(token), userID, ttl).Err()
}

func (s *refreshTokenRedisStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve refresh token: %w", err)
	}
	return userID, nil
}

func (s *refreshTokenRedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}
