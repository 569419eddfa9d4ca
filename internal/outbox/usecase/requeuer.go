package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
)

// RequeuerConfig holds outbox requeuer configuration
type RequeuerConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// RequeueResult reports one requeue run.
type RequeueResult struct {
	Requeued  int64 `json:"requeued"`
	Exhausted int64 `json:"exhausted"`
}

// Requeuer gives FAILED records another delivery attempt. Records that reached
// MaxAttempts stay FAILED as dead letters for operations to inspect.
type Requeuer struct {
	config  RequeuerConfig
	repo    OutboxRepository
	clock   clock.Clock
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewRequeuer creates a new Requeuer
func NewRequeuer(
	config RequeuerConfig,
	repo OutboxRepository,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Requeuer {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &Requeuer{config: config, repo: repo, clock: clk, metrics: businessMetrics, logger: logger}
}

// Start requeues every Interval until ctx is cancelled.
func (r *Requeuer) Start(ctx context.Context) error {
	return runEvery(ctx, "outbox requeuer", r.config.Interval, r.logger, func(ctx context.Context) error {
		_, err := r.Requeue(ctx)
		return err
	})
}

// Requeue moves FAILED records with attempts left back to INIT and counts dead letters.
func (r *Requeuer) Requeue(ctx context.Context) (RequeueResult, error) {
	var result RequeueResult

	requeued, err := r.repo.RequeueFailed(ctx, r.config.MaxAttempts, r.clock.Now())
	if err != nil {
		r.metrics.RecordOperation(ctx, "outbox", "requeue", metrics.StatusError)
		return result, err
	}
	result.Requeued = requeued

	exhausted, err := r.repo.CountExhausted(ctx, r.config.MaxAttempts)
	if err != nil {
		r.metrics.RecordOperation(ctx, "outbox", "requeue", metrics.StatusError)
		return result, err
	}
	result.Exhausted = exhausted

	r.metrics.RecordOperation(ctx, "outbox", "requeue", metrics.StatusSuccess)
	r.metrics.RecordRecords(ctx, "outbox", "requeue", requeued, "requeued")
	r.metrics.RecordRecords(ctx, "outbox", "requeue", exhausted, "dead_letter")

	if r.logger != nil {
		if requeued > 0 {
			r.logger.Info("requeued failed outbox records", slog.Int64("count", requeued))
		}
		if exhausted > 0 {
			r.logger.Error("outbox records exhausted their delivery attempts",
				slog.Int64("count", exhausted),
				slog.Int("max_attempts", r.config.MaxAttempts),
			)
		}
	}

	return result, nil
}
