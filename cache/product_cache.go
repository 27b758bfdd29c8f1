package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yashrajoria/storefront-service/models"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "storefront:product:"
	ProductListCachePrefix = "storefront:products:v"
	CacheVersionKey        = "storefront:products:version"

	DefaultCacheTTL = 10 * time.Minute
)

// ProductCache caches product detail and listing reads in Redis. Listings
// are keyed by a version counter, so bumping the counter invalidates every
// listing at once. Cache failures are logged and never returned.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProductCache{redis: client, ttl: ttl, logger: logger}
}

// GetProduct returns the cached product, if any.
func (c *ProductCache) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	data, err := c.redis.Get(ctx, ProductCachePrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read product cache", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("Failed to unmarshal cached product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, false
	}
	return &product, true
}

// SetProduct caches a single product.
func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("Failed to marshal product for cache", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, ProductCachePrefix+product.ID.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

// GetListing decodes the cached listing for key into dst.
func (c *ProductCache) GetListing(ctx context.Context, key string, dst any) bool {
	version, err := c.version(ctx)
	if err != nil {
		return false
	}

	data, err := c.redis.Get(ctx, c.listKey(version, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return false
	}
	return true
}

// SetListing caches a listing under the current version.
func (c *ProductCache) SetListing(ctx context.Context, key string, listing any) {
	version, err := c.version(ctx)
	if err != nil {
		return
	}

	data, err := json.Marshal(listing)
	if err != nil {
		c.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, c.listKey(version, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product list", zap.Error(err))
	}
}

// InvalidateProducts drops the given product entries and every listing.
func (c *ProductCache) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) {
	if newVersion, err := c.redis.Incr(ctx, CacheVersionKey).Result(); err != nil {
		c.logger.Error("Failed to invalidate product list cache", zap.Error(err))
	} else {
		c.logger.Debug("Product list cache invalidated", zap.Int64("new_version", newVersion))
	}

	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ProductCachePrefix+id.String())
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to delete product cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// version returns the current listing version, initializing it to 1.
func (c *ProductCache) version(ctx context.Context) (int64, error) {
	ver, err := c.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	// SETNX so a concurrent Incr is never overwritten.
	if err := c.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.redis.Get(ctx, CacheVersionKey).Int64()
}

func (c *ProductCache) listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", ProductListCachePrefix, version, key)
}
