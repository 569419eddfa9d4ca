package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	called := m.Called(ctx, script, keys, args)
	return redis.NewCmdResult(called.Get(0), called.Error(1))
}

func (m *MockRedisClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	args := m.Called(ctx, key)
	fields, _ := args.Get(0).(map[string]string)
	return redis.NewMapStringStringResult(fields, args.Error(1))
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return redis.NewStatusResult("PONG", args.Error(0))
}

func (m *MockRedisClient) Close() error {
	return m.Called().Error(0)
}

func newRedisRepository(client redisClient) *RedisRevenueRepository {
	return &RedisRevenueRepository{client: client, serviceName: "service-order", retention: 48 * time.Hour}
}

func TestRedisRevenueRepository_Apply(t *testing.T) {
	ctx := context.Background()
	storeA := uuid.MustParse("0195a1b2-0000-7000-8000-00000000000a")
	storeB := uuid.MustParse("0195a1b2-0000-7000-8000-00000000000b")
	windowStart := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	contributions := []domain.Contribution{
		{StoreID: storeA, WindowStart: windowStart, Amount: 1300},
		{StoreID: storeB, WindowStart: windowStart, Amount: 2500},
	}

	expectedKeys := []string{
		"service-order:revenue:event:evt-1",
		"service-order:revenue:store:" + storeA.String(),
		"service-order:revenue:store:" + storeB.String(),
	}
	expectedArgs := []interface{}{
		int64(48 * 60 * 60),
		"1772366400", int64(1300),
		"1772366400", int64(2500),
	}

	t.Run("first delivery", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("Eval", ctx, applyScript, expectedKeys, expectedArgs).Return(int64(1), nil)

		applied, err := newRedisRepository(client).Apply(ctx, "evt-1", contributions)

		require.NoError(t, err)
		assert.True(t, applied)
		client.AssertExpectations(t)
	})

	t.Run("redelivery", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("Eval", ctx, applyScript, expectedKeys, expectedArgs).Return(int64(0), nil)

		applied, err := newRedisRepository(client).Apply(ctx, "evt-1", contributions)

		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("redis error", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("Eval", ctx, applyScript, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		applied, err := newRedisRepository(client).Apply(ctx, "evt-1", contributions)

		assert.ErrorContains(t, err, "connection refused")
		assert.False(t, applied)
	})
}

func TestRedisRevenueRepository_Windows(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.MustParse("0195a1b2-0000-7000-8000-00000000000a")
	key := "service-order:revenue:store:" + storeID.String()

	t.Run("parses windows", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("HGetAll", ctx, key).Return(map[string]string{"1772366400": "1300"}, nil)

		windows, err := newRedisRepository(client).Windows(ctx, storeID)

		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.True(t, windows[0].Start.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
		assert.Equal(t, int64(1300), windows[0].Amount)
	})

	t.Run("unknown store", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("HGetAll", ctx, key).Return(map[string]string{}, nil)

		windows, err := newRedisRepository(client).Windows(ctx, storeID)

		require.NoError(t, err)
		assert.Empty(t, windows)
	})

	t.Run("corrupt field", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("HGetAll", ctx, key).Return(map[string]string{"noon": "1300"}, nil)

		_, err := newRedisRepository(client).Windows(ctx, storeID)

		assert.ErrorContains(t, err, "invalid revenue window")
	})

	t.Run("redis error", func(t *testing.T) {
		client := &MockRedisClient{}
		client.On("HGetAll", ctx, key).Return(nil, errors.New("connection refused"))

		_, err := newRedisRepository(client).Windows(ctx, storeID)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestNewRedisRevenueRepository_DefaultRetention(t *testing.T) {
	repo := NewRedisRevenueRepository(RedisConfig{Addr: "localhost:6379", ServiceName: "service-order"})
	t.Cleanup(func() { _ = repo.Close() })

	assert.Equal(t, DefaultRetention, repo.retention)
}
