// Package repository stores the store revenue projection in Redis or in process memory.
package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// applyScript marks the event id and adds every contribution in one atomic step.
// KEYS[1] is the event marker, KEYS[2..n] the store hashes. ARGV[1] is the TTL in seconds,
// followed by one (window field, amount) pair per store hash.
const applyScript = `
if not redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[1]) then
  return 0
end
for i = 2, #KEYS do
  redis.call('HINCRBY', KEYS[i], ARGV[i * 2 - 2], ARGV[i * 2 - 1])
  redis.call('EXPIRE', KEYS[i], ARGV[1])
end
return 1
`

// DefaultRetention is used when RedisConfig.Retention is not positive.
const DefaultRetention = 48 * time.Hour

type redisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisConfig configures the Redis revenue repository.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	ServiceName string
	Retention   time.Duration
}

// RedisRevenueRepository keeps one hash per store, keyed by window start in unix seconds.
// Every server replica shares it, so the projection may run in any of them.
type RedisRevenueRepository struct {
	client      redisClient
	serviceName string
	retention   time.Duration
}

// NewRedisRevenueRepository creates a Redis backed RevenueRepository.
func NewRedisRevenueRepository(cfg RedisConfig) *RedisRevenueRepository {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	return &RedisRevenueRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		serviceName: cfg.ServiceName,
		retention:   cfg.Retention,
	}
}

func (r *RedisRevenueRepository) eventKey(eventID string) string {
	return fmt.Sprintf("%s:revenue:event:%s", r.serviceName, eventID)
}

func (r *RedisRevenueRepository) storeKey(storeID uuid.UUID) string {
	return fmt.Sprintf("%s:revenue:store:%s", r.serviceName, storeID)
}

func (r *RedisRevenueRepository) Apply(
	ctx context.Context,
	eventID string,
	contributions []domain.Contribution,
) (bool, error) {
	keys := make([]string, 0, len(contributions)+1)
	args := make([]interface{}, 0, len(contributions)*2+1)

	keys = append(keys, r.eventKey(eventID))
	args = append(args, int64(r.retention/time.Second))
	for _, c := range contributions {
		keys = append(keys, r.storeKey(c.StoreID))
		args = append(args, strconv.FormatInt(c.WindowStart.Unix(), 10), c.Amount)
	}

	applied, err := r.client.Eval(ctx, applyScript, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("failed to apply revenue: %w", err)
	}
	return applied == 1, nil
}

func (r *RedisRevenueRepository) Windows(ctx context.Context, storeID uuid.UUID) ([]domain.Window, error) {
	fields, err := r.client.HGetAll(ctx, r.storeKey(storeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read revenue windows: %w", err)
	}

	windows := make([]domain.Window, 0, len(fields))
	for field, value := range fields {
		start, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid revenue window %q: %w", field, err)
		}
		amount, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid revenue amount for window %q: %w", field, err)
		}
		windows = append(windows, domain.Window{Start: time.Unix(start, 0).UTC(), Amount: amount})
	}
	return windows, nil
}

// Ping checks the Redis connection. It backs the readiness check.
func (r *RedisRevenueRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRevenueRepository) Close() error {
	return r.client.Close()
}
