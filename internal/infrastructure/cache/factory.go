package cache

import (
	"fmt"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory picks the reminder store for the running process
type IdempotencyStoreFactory struct {
	client                redis.UniversalClient
	keyPrefix             string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithKeyPrefix overrides DefaultReminderKeyPrefix
func WithKeyPrefix(prefix string) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.keyPrefix = prefix
	}
}

// WithInMemoryFallback controls whether a missing Redis client is tolerated.
// Defaults to true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a factory. client may be nil when Redis
// could not be reached at startup.
func NewIdempotencyStoreFactory(client redis.UniversalClient, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		client:                client,
		keyPrefix:             DefaultReminderKeyPrefix,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when a client is available, otherwise an
// in-memory store if fallback is allowed
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if f.client != nil {
		f.logger.Info("using Redis idempotency store", zap.String("key_prefix", f.keyPrefix))
		return NewRedisIdempotencyStore(f.client, f.keyPrefix), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for reminder idempotency but unavailable")
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store; " +
		"reminders may be sent twice when several instances run the reminder job")
	return NewInMemoryIdempotencyStore(), nil
}
