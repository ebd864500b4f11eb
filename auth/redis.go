// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/VA7DBI/userauthAPI/config"
	"github.com/redis/go-redis/v9"
)

// RedisRevocationStore implements RevocationStore on Redis. Each record is
// keyed by the raw token with a TTL matching the token's remaining validity,
// so records disappear exactly when expiry would reject the token anyway.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(cfg *config.Config) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Blacklist.Redis.Host, cfg.Blacklist.Redis.Port),
		Password: cfg.Blacklist.Redis.Password,
		DB:       cfg.Blacklist.Redis.DB,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %v", err)
	}

	return &RedisRevocationStore{client: client}, nil
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, token, userID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past expiry; verification rejects it without our help.
		return nil
	}
	return s.client.Set(ctx, token, userID, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, token).Result()
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}
