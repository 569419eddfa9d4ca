package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
)

// CleanerConfig holds outbox cleaner configuration
type CleanerConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// Cleaner deletes delivered and failed records once they are older than the retention.
type Cleaner struct {
	config  CleanerConfig
	repo    OutboxRepository
	clock   clock.Clock
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewCleaner creates a new Cleaner
func NewCleaner(
	config CleanerConfig,
	repo OutboxRepository,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Cleaner {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &Cleaner{config: config, repo: repo, clock: clk, metrics: businessMetrics, logger: logger}
}

// Start cleans every Interval until ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) error {
	return runEvery(ctx, "outbox cleaner", c.config.Interval, c.logger, func(ctx context.Context) error {
		_, err := c.Clean(ctx, false)
		return err
	})
}

// Clean deletes PUBLISHED and FAILED records created before now - Retention and returns
// how many were deleted. With dryRun it only counts them. INIT records are never touched.
func (c *Cleaner) Clean(ctx context.Context, dryRun bool) (int64, error) {
	cutoff := c.clock.Now().Add(-c.config.Retention)

	var (
		count int64
		err   error
	)
	if dryRun {
		count, err = c.repo.CountTerminalOlderThan(ctx, cutoff)
	} else {
		count, err = c.repo.DeleteTerminalOlderThan(ctx, cutoff)
	}
	if err != nil {
		c.metrics.RecordOperation(ctx, "outbox", "clean", metrics.StatusError)
		return 0, err
	}

	c.metrics.RecordOperation(ctx, "outbox", "clean", metrics.StatusSuccess)
	if !dryRun {
		c.metrics.RecordRecords(ctx, "outbox", "clean", count, "deleted")
	}

	if c.logger != nil {
		c.logger.Info("cleaned outbox records",
			slog.Int64("count", count),
			slog.Time("cutoff", cutoff),
			slog.Bool("dry_run", dryRun),
		)
	}

	return count, nil
}
