package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
)

// StoreFactory creates the cache-backed stores (submission guard, product
// cache) for the configured backend kind
type StoreFactory struct {
	backendKind           string // "memory" or "redis"
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory for the given cache backend kind
func NewStoreFactory(backendKind string, redisCfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		backendKind:           backendKind,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *StoreFactory) redisStoreConfig() RedisConfig {
	return RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}
}

// CreateSubmissionStore creates the idempotency store guarding checkout
// submissions. With the redis backend it falls back to in-memory when Redis
// is unreachable, unless fallback is disabled.
func (f *StoreFactory) CreateSubmissionStore() (shared.IdempotencyStore, error) {
	if f.backendKind != "redis" {
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(f.redisStoreConfig())
	if err == nil {
		f.logger.Info("using Redis submission guard store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for submission guard but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory submission guard. "+
		"Duplicate submissions are only caught within a single instance.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// CreateProductCache creates the product list cache for the configured
// backend kind, with the same fallback behavior as the submission store
func (f *StoreFactory) CreateProductCache() (ProductCache, error) {
	if f.backendKind != "redis" {
		return NewInMemoryProductCache(f.logger), nil
	}

	productCache, err := NewRedisProductCache(f.redisStoreConfig(), f.logger)
	if err == nil {
		f.logger.Info("using Redis product cache")
		return productCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory product cache",
		zap.Error(err),
	)
	return NewInMemoryProductCache(f.logger), nil
}
