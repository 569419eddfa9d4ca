package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
)

func TestRequeuer_Requeue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	config := RequeuerConfig{Interval: 30 * time.Second, MaxAttempts: 5}

	t.Run("Success", func(t *testing.T) {
		repo := &MockOutboxRepository{}
		repo.On("RequeueFailed", ctx, 5, now).Return(int64(4), nil).Once()
		repo.On("CountExhausted", ctx, 5).Return(int64(1), nil).Once()

		requeuer := NewRequeuer(config, repo, clock.NewMockClock(now), nil, discardLogger())
		result, err := requeuer.Requeue(ctx)

		require.NoError(t, err)
		assert.Equal(t, RequeueResult{Requeued: 4, Exhausted: 1}, result)
		repo.AssertExpectations(t)
	})

	t.Run("Error_RequeueFails", func(t *testing.T) {
		repo := &MockOutboxRepository{}
		dbErr := errors.New("database error")
		repo.On("RequeueFailed", ctx, 5, now).Return(int64(0), dbErr).Once()

		requeuer := NewRequeuer(config, repo, clock.NewMockClock(now), nil, discardLogger())
		_, err := requeuer.Requeue(ctx)

		assert.ErrorIs(t, err, dbErr)
		repo.AssertNotCalled(t, "CountExhausted", ctx, 5)
	})

	t.Run("Error_CountFails", func(t *testing.T) {
		repo := &MockOutboxRepository{}
		dbErr := errors.New("database error")
		repo.On("RequeueFailed", ctx, 5, now).Return(int64(2), nil).Once()
		repo.On("CountExhausted", ctx, 5).Return(int64(0), dbErr).Once()

		requeuer := NewRequeuer(config, repo, clock.NewMockClock(now), nil, nil)
		result, err := requeuer.Requeue(ctx)

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, int64(2), result.Requeued)
	})
}
