// Package usecase implements the transactional outbox: the write path used inside order
// transactions and the background jobs that publish, requeue and clean outbox records.
package usecase

import (
	"context"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

// OutboxRepository defines outbox record persistence operations
type OutboxRepository interface {
	Create(ctx context.Context, record *domain.OutboxRecord) error
	GetInitBatchForUpdate(ctx context.Context, limit int) ([]*domain.OutboxRecord, error)
	Update(ctx context.Context, record *domain.OutboxRecord) error
	DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	CountTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	RequeueFailed(ctx context.Context, maxAttempts int, now time.Time) (int64, error)
	CountExhausted(ctx context.Context, maxAttempts int) (int64, error)
}

// Job is a periodic background task.
type Job interface {
	Start(ctx context.Context) error
}
