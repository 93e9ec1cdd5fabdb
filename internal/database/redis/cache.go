package redis

import (
	"context"
	"encoding/json"
	"time"

	"equiplend/internal/entity"

	"github.com/redis/go-redis/v9"
)

const categoryListKey = "categories:all"

// CacheRepository holds read-mostly data (the category list) in Redis.
// Writers must call InvalidateCategories after every mutation.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CacheRepository) SetCategories(ctx context.Context, categories []*entity.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoryListKey, data, r.ttl).Err()
}

func (r *CacheRepository) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	data, err := r.client.Get(ctx, categoryListKey).Result()
	if err != nil {
		return nil, err
	}

	var categories []*entity.Category
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CacheRepository) InvalidateCategories(ctx context.Context) error {
	return r.client.Del(ctx, categoryListKey).Err()
}
