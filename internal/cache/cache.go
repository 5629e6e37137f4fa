// Package cache implements the Redis-backed product read cache. The cache is
// best-effort: when Redis is not configured or unreachable, every lookup is
// a miss and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/souqlab/storefront-api/internal/models"
)

const productTTL = 5 * time.Minute

// ProductCache caches products by id.
type ProductCache struct {
	client *redis.Client
}

// NewProductCache connects to Redis at addr. An empty addr or a failed ping
// yields a disabled cache rather than an error; product reads then always
// hit the database.
func NewProductCache(addr string) *ProductCache {
	if addr == "" {
		return &ProductCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[CACHE] Redis unreachable at %s, product cache disabled: %v", addr, err)
		client.Close()
		return &ProductCache{}
	}

	log.Printf("[CACHE] Connected to Redis at %s", addr)
	return &ProductCache{client: client}
}

// Close releases the Redis connection.
func (c *ProductCache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

func productKey(id string) string {
	return "product:" + id
}

// Get returns the cached product and whether it was found.
func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Set stores a product for the cache TTL. Failures are logged and dropped.
func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, productTTL).Err(); err != nil {
		log.Printf("[CACHE] Failed to cache product %s: %v", p.ID, err)
	}
}

// Invalidate drops cached entries for the given product ids. Called after
// product updates and after stock decrements.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...string) {
	if c == nil || c.client == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", fmt.Sprint(ids), err)
	}
}
