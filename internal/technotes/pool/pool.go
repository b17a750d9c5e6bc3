// Package pool manages the redis connection used by the rate limiter.
package pool

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/blueplan/technotes-go/internal/technotes/log"
)

// RedisManager lazily creates and owns the redis client.
type RedisManager struct {
	addr   string
	db     int
	mu     sync.Mutex
	client *redis.Client
	logger *log.Logger
}

// NewRedisManager creates a redis connection manager for the given address.
func NewRedisManager(addr string, db int, logger *log.Logger) *RedisManager {
	return &RedisManager{
		addr:   addr,
		db:     db,
		logger: logger,
	}
}

// Client returns the shared redis client, creating it on first use.
func (rm *RedisManager) Client() *redis.Client {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.client == nil {
		rm.client = redis.NewClient(&redis.Options{
			Addr: rm.addr,
			DB:   rm.db,
		})
		rm.logger.Info(context.Background(), "created redis client", log.KV("addr", rm.addr))
	}
	return rm.client
}

// Ping tests the connection.
func (rm *RedisManager) Ping(ctx context.Context) error {
	return rm.Client().Ping(ctx).Err()
}

// Close closes the redis connection.
func (rm *RedisManager) Close() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.client == nil {
		return nil
	}
	err := rm.client.Close()
	rm.client = nil
	return err
}
