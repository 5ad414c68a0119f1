package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"user-notification-system/internal/domain"

	"github.com/go-redis/redis/v8"
)

// RedisUserCache keeps the public projection of users. Password hashes are
// never cached (User.Password is excluded from JSON).
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl}
}

func userKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// GetUser returns (nil, nil) on a cache miss.
func (r *RedisUserCache) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	result, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal([]byte(result), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RedisUserCache) SetUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKey(user.ID), data, r.ttl).Err()
}

func (r *RedisUserCache) InvalidateUser(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, userKey(userID)).Err()
}
