package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/covercraft/catalog_api/internal/models"
)

const productListKey = "catalog:products:all"

// CatalogCache caches the full product list. The catalog is small and read
// far more often than it changes, so a single whole-list entry with write
// invalidation is sufficient.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		redis: redis,
		ttl:   ttl,
	}
}

// GetProducts returns the cached product list, or (nil, nil) on a miss.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := c.redis.Get(ctx, productListKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	return products, nil
}

// SetProducts stores the product list with the configured TTL.
func (c *CatalogCache) SetProducts(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	return c.redis.Set(ctx, productListKey, string(raw), c.ttl)
}

// InvalidateProducts drops the cached product list after a write.
func (c *CatalogCache) InvalidateProducts(ctx context.Context) error {
	return c.redis.Delete(ctx, productListKey)
}
