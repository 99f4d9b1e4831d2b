package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory connects to Redis when it is configured and hands out stores
// backed either by Redis or by process memory.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory. Call Connect before creating stores.
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// Connect opens the Redis connection when Redis is enabled.
// Without Redis the factory serves in-memory stores, unless fallback is disabled.
func (f *Factory) Connect() error {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.client = client
		f.logger.Info("Connected to Redis", zap.String("addr", f.redisConfig.Addr()))
		return nil
	}

	if !f.allowInMemoryFallback {
		return fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"State will not be shared between instances.",
		zap.Error(err),
	)
	return nil
}

// Client returns the Redis client, or nil when running on in-memory stores
func (f *Factory) Client() *redis.Client {
	return f.client
}

// CreateStore returns a store namespaced by keyPrefix
func (f *Factory) CreateStore(keyPrefix string) Store {
	if f.client != nil {
		return NewRedisStore(f.client, keyPrefix)
	}
	return NewInMemoryStore()
}

// Close releases the Redis connection, if any
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
