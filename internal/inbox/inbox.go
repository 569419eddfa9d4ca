// Package inbox remembers processed inbound event ids so redelivered events can be
// skipped before they reach the database.
package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator records processed event ids.
type Deduplicator interface {
	// Seen reports whether eventID was marked before.
	Seen(ctx context.Context, eventID string) (bool, error)
	// Mark records eventID as processed.
	Mark(ctx context.Context, eventID string) error
	Close() error
}

type redisClient interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisConfig configures the Redis deduplicator.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	ServiceName string
	TTL         time.Duration
}

// RedisDeduplicator keeps one key per processed event id, expiring after the TTL.
type RedisDeduplicator struct {
	client      redisClient
	serviceName string
	ttl         time.Duration
}

// NewRedisDeduplicator creates a Redis backed Deduplicator. No connection is made until
// the first command.
func NewRedisDeduplicator(cfg RedisConfig) *RedisDeduplicator {
	return &RedisDeduplicator{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		serviceName: cfg.ServiceName,
		ttl:         cfg.TTL,
	}
}

func (d *RedisDeduplicator) key(eventID string) string {
	return fmt.Sprintf("%s:inbox:%s", d.serviceName, eventID)
}

func (d *RedisDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check inbox key: %w", err)
	}
	return n > 0, nil
}

func (d *RedisDeduplicator) Mark(ctx context.Context, eventID string) error {
	if err := d.client.Set(ctx, d.key(eventID), 1, d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set inbox key: %w", err)
	}
	return nil
}

// Ping checks the Redis connection. It backs the readiness check.
func (d *RedisDeduplicator) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *RedisDeduplicator) Close() error {
	return d.client.Close()
}

// NoopDeduplicator never reports an event as seen. It is used when Redis is not
// configured; the order state machine still rejects duplicate transitions.
type NoopDeduplicator struct{}

func NewNoopDeduplicator() *NoopDeduplicator {
	return &NoopDeduplicator{}
}

func (NoopDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) { return false, nil }

func (NoopDeduplicator) Mark(ctx context.Context, eventID string) error { return nil }

func (NoopDeduplicator) Close() error { return nil }
