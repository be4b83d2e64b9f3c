package attribute

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RedisStore keeps each customer's attributes in one hash.
type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Get(ctx context.Context, customerID int64, field string) (string, error) {
	value, err := r.client.HGet(ctx, storeKey(customerID), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrAttributeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis hget failed: %w", err)
	}
	return value, nil
}

func (r *RedisStore) GetAll(ctx context.Context, customerID int64) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, storeKey(customerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	return values, nil
}

func (r *RedisStore) Set(ctx context.Context, customerID int64, field, value string) error {
	if err := r.client.HSet(ctx, storeKey(customerID), field, value).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

func storeKey(customerID int64) string {
	return fmt.Sprintf("customer:%d:meta", customerID)
}
