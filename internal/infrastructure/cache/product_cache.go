package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// ProductCache stores the backend's product list so the storefront does not
// refetch on every page view. A miss is not an error: callers fall through
// to the backend and repopulate.
type ProductCache interface {
	// Get returns the cached product list and whether it was present and fresh
	Get(ctx context.Context) ([]catalog.Product, bool, error)

	// Set stores the product list with a TTL
	Set(ctx context.Context, products []catalog.Product, ttl time.Duration) error

	// Invalidate drops the cached list, forcing the next Get to miss
	Invalidate(ctx context.Context) error

	// Close releases any resources held by the cache
	Close() error
}

// ---------------------------------------------------------------------------
// In-Memory Product Cache
// ---------------------------------------------------------------------------

// InMemoryProductCache implements ProductCache with a guarded single value
type InMemoryProductCache struct {
	mu        sync.RWMutex
	products  []catalog.Product
	hasValue  bool
	expiresAt time.Time
	logger    *zap.Logger

	// Stats for monitoring
	hits   int64
	misses int64
}

// NewInMemoryProductCache creates an in-memory product cache
func NewInMemoryProductCache(logger *zap.Logger) *InMemoryProductCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryProductCache{logger: logger}
}

// Get returns the cached product list if present and fresh
func (c *InMemoryProductCache) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasValue || time.Now().After(c.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		c.logger.Debug("product cache miss")
		return nil, false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	// Copy so callers cannot mutate the cached slice
	products := make([]catalog.Product, len(c.products))
	copy(products, c.products)
	return products, true, nil
}

// Set stores the product list with a TTL
func (c *InMemoryProductCache) Set(ctx context.Context, products []catalog.Product, ttl time.Duration) error {
	stored := make([]catalog.Product, len(products))
	copy(stored, products)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = stored
	c.hasValue = true
	c.expiresAt = time.Now().Add(ttl)

	c.logger.Debug("product cache populated",
		zap.Int("count", len(products)),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate drops the cached list
func (c *InMemoryProductCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	c.hasValue = false

	c.logger.Debug("product cache invalidated")
	return nil
}

// Close releases resources. The in-memory cache has none.
func (c *InMemoryProductCache) Close() error {
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryProductCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ---------------------------------------------------------------------------
// Redis Product Cache
// ---------------------------------------------------------------------------

// cachedProduct is the serialized form of a product in Redis
type cachedProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Images      []string `json:"images"`
}

// RedisProductCache implements ProductCache on a single Redis key, letting
// multiple storefront instances share one backend fetch
type RedisProductCache struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisProductCache creates a Redis-based product cache
func NewRedisProductCache(cfg RedisConfig, logger *zap.Logger) (*RedisProductCache, error) {
	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisProductCacheWithClient(client, "", logger), nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client
func NewRedisProductCacheWithClient(client *redis.Client, key string, logger *zap.Logger) *RedisProductCache {
	if key == "" {
		key = "storefront:products"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Get returns the cached product list if the key exists
func (c *RedisProductCache) Get(ctx context.Context) ([]catalog.Product, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("product cache miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product cache: %w", err)
	}

	var cached []cachedProduct
	if err := json.Unmarshal(data, &cached); err != nil {
		// A corrupt payload behaves like a miss so the list gets refetched
		c.logger.Warn("dropping corrupt product cache payload", zap.Error(err))
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false, nil
	}

	products := make([]catalog.Product, 0, len(cached))
	for _, cp := range cached {
		products = append(products, fromCachedProduct(cp))
	}
	return products, true, nil
}

// Set stores the product list with a TTL
func (c *RedisProductCache) Set(ctx context.Context, products []catalog.Product, ttl time.Duration) error {
	cached := make([]cachedProduct, 0, len(products))
	for _, p := range products {
		cached = append(cached, toCachedProduct(p))
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode product cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product cache: %w", err)
	}

	c.logger.Debug("product cache populated",
		zap.Int("count", len(products)),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate drops the cached list
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	c.logger.Debug("product cache invalidated")
	return nil
}

// Close closes the Redis client
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func toCachedProduct(p catalog.Product) cachedProduct {
	return cachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		Images:      p.Images,
	}
}

func fromCachedProduct(cp cachedProduct) catalog.Product {
	price, err := valueobject.NewMoneyUSDFromString(cp.Price)
	if err != nil {
		price = valueobject.ZeroUSD()
	}
	return catalog.Product{
		ID:          cp.ID,
		Name:        cp.Name,
		Category:    catalog.Category(cp.Category),
		Price:       price,
		Description: cp.Description,
		Rating:      cp.Rating,
		Reviews:     cp.Reviews,
		Images:      cp.Images,
	}
}

// Ensure both caches implement ProductCache
var (
	_ ProductCache = (*InMemoryProductCache)(nil)
	_ ProductCache = (*RedisProductCache)(nil)
)
