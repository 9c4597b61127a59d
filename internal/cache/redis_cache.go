package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"gasbook/backend/internal/domain"
)

type RedisCategoryCache struct {
	client *redis.Client
}

func NewRedisCategoryCache(addr string, password string, db int) *RedisCategoryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCategoryCache{client: client}
}

func (c *RedisCategoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCategoryCache) Close() error {
	return c.client.Close()
}

func (c *RedisCategoryCache) Get(ctx context.Context, key string) ([]domain.TxCategory, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var categories []domain.TxCategory
	if err := json.Unmarshal([]byte(val), &categories); err != nil {
		return nil, false, err
	}
	return categories, true, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, key string, categories []domain.TxCategory, ttl time.Duration) error {
	if len(categories) == 0 {
		return nil
	}
	payload, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
