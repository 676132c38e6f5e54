package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tech-help/helpdesk-service/internal/domain"
)

const categoryCachePrefix = "category:"

// cachedCategoryRepository wraps a CategoryRepository with a Redis
// read-through cache for point lookups. Writes invalidate the cached entry.
type cachedCategoryRepository struct {
	inner  CategoryRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedCategoryRepository decorates the repository with Redis caching.
// A nil client returns the inner repository unchanged.
func NewCachedCategoryRepository(inner CategoryRepository, client *redis.Client, ttl time.Duration) CategoryRepository {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cachedCategoryRepository{inner: inner, client: client, ttl: ttl}
}

func (r *cachedCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.inner.Create(ctx, category)
}

func (r *cachedCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := r.inner.Update(ctx, category); err != nil {
		return err
	}
	r.client.Del(ctx, categoryKey(category.ID))
	return nil
}

func (r *cachedCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	key := categoryKey(id)
	if payload, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var category domain.Category
		if err := json.Unmarshal(payload, &category); err == nil {
			return &category, nil
		}
		r.client.Del(ctx, key)
	}

	category, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(category); err == nil {
		r.client.Set(ctx, key, payload, r.ttl)
	}
	return category, nil
}

func (r *cachedCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return r.inner.List(ctx)
}

func (r *cachedCategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.client.Del(ctx, categoryKey(id))
	return nil
}

func categoryKey(id int64) string {
	return fmt.Sprintf("%s%d", categoryCachePrefix, id)
}
